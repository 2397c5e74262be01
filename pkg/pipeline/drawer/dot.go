package drawer

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-twostage/pkg/pipeline/measure"
)

// DOTDrawer writes the pipeline graph in the DOT language.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	wrt   io.Writer
}

func NewDOTDrawer(wrt io.Writer) *DOTDrawer {
	return &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
		wrt:   wrt,
	}
}

// AddStage adds a vertex for the stage. A negative capacity is an unbounded queue.
func (d *DOTDrawer) AddStage(name string, capacity int) error {
	queue := "unbounded"
	if capacity >= 0 {
		queue = strconv.Itoa(capacity)
	}
	err := d.graph.AddVertex(name,
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("tooltip", "queue: "+queue),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

func (d *DOTDrawer) Draw() error {
	err := draw.DOT(d.graph, d.wrt, draw.GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

func (d *DOTDrawer) SetTotalTime(stageName string, totalTime time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(stageName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stageName)
	}
	properties.Attributes["xlabel"] = "end: " + totalTime.String()

	return nil
}

const maxRGB = 240

// AddMeasure labels every stage with its average computation time and every
// link with its average transport time, from blue for the fastest to red for
// the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	all := msr.AllMetrics()

	var elapsed []time.Duration
	for _, mt := range all {
		for _, info := range mt.AVGTransportDuration() {
			if info.Elapsed > 0 {
				elapsed = append(elapsed, info.Elapsed)
			}
		}
	}
	sort.Slice(elapsed, func(i, j int) bool { return elapsed[i] < elapsed[j] })

	for name, mt := range all {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get %s vertex properties", name)
		}
		label := properties.Attributes["xlabel"]
		if avg := mt.AVGDuration(); avg > 0 {
			label = joinLabel("avg: "+avg.String(), label)
		}
		if total := mt.GetTotalDuration(); total > 0 {
			label = joinLabel(label, "end: "+total.String())
		}
		if label != "" {
			properties.Attributes["xlabel"] = label
		}

		for inputStage, info := range mt.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}
			colour, err := gradient(info.Elapsed, elapsed[0], elapsed[len(elapsed)-1])
			if err != nil {
				return err
			}
			err = d.graph.UpdateEdge(inputStage, name,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", colour),
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge from %s to %s", inputStage, name)
			}
		}
	}

	return nil
}

func joinLabel(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + ", " + b
	}
}

func gradient(value, minValue, maxValue time.Duration) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(value-minValue) / float64(maxValue-minValue)
	}
	red := maxRGB * fraction
	blue := maxRGB - red

	colour, err := colors.RGB(uint8(red), 0, uint8(blue))
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

var _ Drawer = (*DOTDrawer)(nil)
