package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-twostage/internal/config"
	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

const clockLayout = "15:04:05"

func formatText(r model.StageBResult) string {
	return fmt.Sprintf("stdin -> %s AT %s\nA: %s -> %s AT %s\nB: %s -> %s AT %s\n",
		r.OriginalPayload, r.ReceivedAt.Format(clockLayout),
		r.OriginalPayload, r.AOutput, r.ProcessedByAAt.Format(clockLayout),
		r.AOutput, r.BOutput, r.ProcessedByBAt.Format(clockLayout),
	)
}

func writeRecords(w io.Writer, format string, records []model.StageBResult) error {
	if format == config.FormatJSON {
		enc := json.NewEncoder(w)
		for _, record := range records {
			err := enc.Encode(record)
			if err != nil {
				return errors.Wrapf(err, "unable to encode record %d", record.Seq)
			}
		}

		return nil
	}

	for _, record := range records {
		_, err := fmt.Fprintln(w, formatText(record))
		if err != nil {
			return errors.Wrapf(err, "unable to write record %d", record.Seq)
		}
	}

	return nil
}
