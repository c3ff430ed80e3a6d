package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/talentflow/talentflow/internal/models"
)

// ExportCandidatesCSV renders a candidate snapshot into CSV, one candidate
// per row in the order given.
func ExportCandidatesCSV(cs []*models.Candidate) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "name", "email", "stage", "job_id", "created_at"})
	for _, c := range cs {
		rec := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Email,
			string(c.Stage),
			strconv.FormatInt(c.JobID, 10),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
