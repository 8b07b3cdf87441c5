// Package changeset tracks in-memory edits to an exam's result rows and
// computes the minimal bulk-save payload against the last-saved snapshot.
// It is the only mutable piece of the grading engine; everything else is
// stateless. All operations run synchronously on the caller's goroutine.
package changeset

import (
	"strconv"
	"strings"

	"github.com/Kasms254/KASMS-sub002/internal/models"
	appErrors "github.com/Kasms254/KASMS-sub002/pkg/errors"
)

// Field names an editable column of a result row.
type Field string

const (
	FieldMarks   Field = "marksObtained"
	FieldRemarks Field = "remarks"
)

// Row wraps a working copy of a ResultRecord with edit tracking. Errors is
// keyed by field name and drives inline display.
type Row struct {
	Record models.ResultRecord
	Dirty  bool
	Errors map[string]string
}

// ChangeSet holds the last-saved snapshot and the editable working rows for
// one exam. It exists between load and save; after a successful save the
// caller reloads the authoritative snapshot and builds a fresh ChangeSet.
type ChangeSet struct {
	totalMarks float64
	snapshot   map[int64]models.ResultRecord
	working    []Row
	index      map[int64]int
	sent       []int64
}

// New builds a ChangeSet from freshly loaded results. The working rows start
// as clean deep copies of the snapshot.
func New(results []models.ResultRecord, totalMarks float64) *ChangeSet {
	c := &ChangeSet{
		totalMarks: totalMarks,
		snapshot:   make(map[int64]models.ResultRecord, len(results)),
		working:    make([]Row, 0, len(results)),
		index:      make(map[int64]int, len(results)),
	}
	for _, r := range results {
		c.snapshot[r.ID] = copyRecord(r)
		c.index[r.ID] = len(c.working)
		c.working = append(c.working, Row{Record: copyRecord(r), Errors: map[string]string{}})
	}
	return c
}

// Rows exposes the working rows for display.
func (c *ChangeSet) Rows() []Row {
	return c.working
}

// Row returns the working row for the given result id.
func (c *ChangeSet) Row(id int64) (Row, bool) {
	i, ok := c.index[id]
	if !ok {
		return Row{}, false
	}
	return c.working[i], true
}

// Update applies one field edit to a working row and re-validates it. Edits
// to locked rows are silently ignored: routing a locked row into the
// edit-request workflow is the caller's decision, not a data error. Marks
// arrive as raw text; an empty value clears the mark and flags the row as
// requiring one, and malformed numbers keep the previous value but attach a
// field error.
func (c *ChangeSet) Update(id int64, field Field, raw string) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	row := &c.working[i]
	if row.Record.IsLocked {
		return
	}

	switch field {
	case FieldMarks:
		row.Dirty = true
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			row.Record.MarksObtained = nil
			row.Errors[string(FieldMarks)] = "marks are required"
			return
		}
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			row.Errors[string(FieldMarks)] = "marks must be a number"
			return
		}
		row.Record.MarksObtained = &value
		if msg, ok := c.validateMarks(row.Record.MarksObtained); !ok {
			row.Errors[string(FieldMarks)] = msg
			return
		}
		delete(row.Errors, string(FieldMarks))
	case FieldRemarks:
		row.Dirty = true
		row.Record.Remarks = raw
	}
}

// Diff returns the rows to include in a save. A row is changed when its dirty
// flag is set OR its marks/remarks differ from the snapshot; both checks must
// agree a row is unchanged for it to be excluded, which guards against a row
// being flagged clean while still differing and vice versa. Rows missing from
// the snapshot are always included.
func (c *ChangeSet) Diff() []Row {
	var changed []Row
	for _, row := range c.working {
		base, ok := c.snapshot[row.Record.ID]
		if !ok {
			changed = append(changed, row)
			continue
		}
		if row.Dirty || c.differs(row.Record, base) {
			changed = append(changed, row)
		}
	}
	return changed
}

// Validate re-runs the marks bound check on every diffed row. Any failure
// blocks the entire save: the error is attached to the offending working row
// for display and an ErrValidation is returned. No partial client-side save.
func (c *ChangeSet) Validate(rows []Row) error {
	ok := true
	for _, row := range rows {
		i, found := c.index[row.Record.ID]
		if !found {
			continue
		}
		working := &c.working[i]
		if msg, valid := c.validateMarks(working.Record.MarksObtained); !valid {
			working.Errors[string(FieldMarks)] = msg
			ok = false
		}
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "one or more rows have invalid marks")
	}
	return nil
}

// BuildRequest validates the current diff and emits the bulk-save tuples for
// the changed rows only. Sending only the diff bounds the request size and
// avoids clobbering rows graded concurrently by someone else.
func (c *ChangeSet) BuildRequest() ([]models.ResultUpdate, error) {
	diff := c.Diff()
	if err := c.Validate(diff); err != nil {
		return nil, err
	}
	updates := make([]models.ResultUpdate, 0, len(diff))
	c.sent = c.sent[:0]
	for _, row := range diff {
		updates = append(updates, models.ResultUpdate{
			ID:            row.Record.ID,
			StudentID:     row.Record.StudentID,
			MarksObtained: *row.Record.MarksObtained,
			Remarks:       row.Record.Remarks,
		})
		c.sent = append(c.sent, row.Record.ID)
	}
	return updates, nil
}

// ApplyServerResult maps a bulk-save response back onto the working rows.
// Each server error string references a row id textually; the leading integer
// is extracted to find the row (a documented but weak contract, see
// ExtractRowID). Errored rows keep their edits and show the server message;
// the remaining sent rows refresh to a clean state. Rows outside the sent set
// keep their unsaved edits untouched. updated>0 together with errors is a
// valid partial outcome, not a failure.
func (c *ChangeSet) ApplyServerResult(updated int, serverErrors []string) {
	failed := make(map[int64]string, len(serverErrors))
	for _, msg := range serverErrors {
		if id, ok := ExtractRowID(msg); ok {
			failed[id] = msg
		}
	}
	for _, id := range c.sent {
		i, ok := c.index[id]
		if !ok {
			continue
		}
		row := &c.working[i]
		if msg, errored := failed[id]; errored {
			row.Errors["save"] = msg
			continue
		}
		if updated == 0 {
			continue
		}
		c.snapshot[id] = copyRecord(row.Record)
		row.Dirty = false
		row.Errors = map[string]string{}
	}
	c.sent = c.sent[:0]
}

// Undo discards every unsaved edit and resets the working rows to a deep copy
// of the snapshot. Applying it twice is the same as applying it once.
func (c *ChangeSet) Undo() {
	for i := range c.working {
		id := c.working[i].Record.ID
		if base, ok := c.snapshot[id]; ok {
			c.working[i] = Row{Record: copyRecord(base), Errors: map[string]string{}}
		} else {
			c.working[i].Dirty = false
			c.working[i].Errors = map[string]string{}
		}
	}
	c.sent = c.sent[:0]
}

func (c *ChangeSet) validateMarks(marks *float64) (string, bool) {
	if marks == nil {
		return "marks are required", false
	}
	if *marks < 0 || *marks > c.totalMarks {
		return "marks must be between 0 and " + strconv.FormatFloat(c.totalMarks, 'f', -1, 64), false
	}
	return "", true
}

func (c *ChangeSet) differs(a, b models.ResultRecord) bool {
	if (a.MarksObtained == nil) != (b.MarksObtained == nil) {
		return true
	}
	if a.MarksObtained != nil && *a.MarksObtained != *b.MarksObtained {
		return true
	}
	return a.Remarks != b.Remarks
}

func copyRecord(r models.ResultRecord) models.ResultRecord {
	out := r
	if r.MarksObtained != nil {
		v := *r.MarksObtained
		out.MarksObtained = &v
	}
	if r.GradedAt != nil {
		t := *r.GradedAt
		out.GradedAt = &t
	}
	return out
}

// ExtractRowID pulls the first integer run out of a server error message,
// e.g. "Row 5: marks too high" yields 5. The server is expected to reference
// the row id textually; a structured {rowId, message} pair would be sturdier
// but this matches the messages the backend emits today.
func ExtractRowID(msg string) (int64, bool) {
	start := -1
	for i, r := range msg {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			id, err := strconv.ParseInt(msg[start:i], 10, 64)
			return id, err == nil
		}
	}
	if start >= 0 {
		id, err := strconv.ParseInt(msg[start:], 10, 64)
		return id, err == nil
	}
	return 0, false
}
