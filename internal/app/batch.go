package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/eventboard/internal/adapters/repository"
	"github.com/okian/eventboard/internal/domain/expansion"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

// StepStatus is the outcome of one planned creation.
type StepStatus string

// Step outcomes.
const (
	StepCreated    StepStatus = "created"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
	StepRolledBack StepStatus = "rolled_back"
)

// StepResult reports one day of a batch.
type StepResult struct {
	Index  int        `json:"index"`
	Date   string     `json:"date"`
	Status StepStatus `json:"status"`
	ID     string     `json:"id,omitempty"`
	NoteID string     `json:"noteId,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// BatchResult reports a range expansion, step by step in creation order.
type BatchResult struct {
	Requested int          `json:"requested"`
	Created   int          `json:"created"`
	Atomic    bool         `json:"atomic"`
	Steps     []StepResult `json:"steps"`
}

// IDs returns the identifiers of the created records in creation order.
func (b BatchResult) IDs() []string {
	out := make([]string, 0, b.Created)
	for _, st := range b.Steps {
		if st.Status == StepCreated {
			out = append(out, st.ID)
		}
	}
	return out
}

// errAborted marks a step that failed inside a transaction.
var errAborted = errors.New("batch aborted")

// CreateEvents validates req, expands it into one record per day and creates
// them in ascending date order. The note, if any, is attached to the first
// record only.
//
// Without transactions a failure stops the loop: earlier days stay persisted
// and the result says which. With atomic batches enabled and supported by the
// store, a failure discards every day.
func (s *Service) CreateEvents(ctx context.Context, req expansion.Request, author string) (BatchResult, error) {
	st, err := s.backend()
	if err != nil {
		return BatchResult{}, err
	}

	plan, err := expansion.Expand(req, s.maxRangeDays)
	if err != nil {
		s.rejected(ctx, err)
		return BatchResult{}, err
	}
	author = s.authorOrDefault(author)

	s.logger.Debug(ctx, "creating events",
		logger.String("name", req.Name),
		logger.Strings("dates", plan.Dates()),
	)
	metrics.RecordBatchStarted(len(plan.Steps))

	if tx, ok := st.(repository.Transactor); ok && s.atomicBatches {
		return s.createAtomic(ctx, tx, plan, author)
	}
	return s.createSequential(ctx, st, plan, author)
}

func (s *Service) createSequential(ctx context.Context, st repository.Store, plan expansion.Plan, author string) (BatchResult, error) {
	res := newBatchResult(plan, false)
	for i, step := range plan.Steps {
		id, noteID, err := runStep(ctx, st, step, author)
		if id != "" {
			res.Steps[i].Status = StepCreated
			res.Steps[i].ID = id
			res.Created++
			metrics.RecordEventCreated()
		}
		res.Steps[i].NoteID = noteID
		if err == nil {
			continue
		}

		if id == "" {
			res.Steps[i].Status = StepFailed
		}
		res.Steps[i].Error = err.Error()
		for j := i + 1; j < len(res.Steps); j++ {
			res.Steps[j].Status = StepSkipped
		}
		if res.Created > 0 {
			metrics.RecordBatchPartial()
		} else {
			metrics.RecordBatchFailed()
		}
		s.logger.Error(ctx, "batch stopped",
			logger.String("date", step.Fields.Date),
			logger.Int("created", res.Created),
			logger.Int("requested", res.Requested),
			logger.Error(err),
		)
		err = fmt.Errorf("day %s: %w", step.Fields.Date, err)
		if !errors.Is(err, repository.ErrStorage) {
			err = fmt.Errorf("%w: %w", repository.ErrStorage, err)
		}
		return res, s.storageFailure(ctx, "create", err)
	}

	s.logger.Info(ctx, "events created",
		logger.Strings("ids", res.IDs()),
		logger.Int("count", res.Created),
	)
	return res, nil
}

func (s *Service) createAtomic(ctx context.Context, tx repository.Transactor, plan expansion.Plan, author string) (BatchResult, error) {
	res := newBatchResult(plan, true)
	failed := -1
	var stepErr error

	err := tx.WithinTx(ctx, func(st repository.Store) error {
		for i, step := range plan.Steps {
			id, noteID, err := runStep(ctx, st, step, author)
			if err != nil {
				failed, stepErr = i, err
				return fmt.Errorf("%w: day %s: %w", errAborted, step.Fields.Date, err)
			}
			res.Steps[i].ID = id
			res.Steps[i].NoteID = noteID
		}
		return nil
	})
	if err != nil {
		for i := range res.Steps {
			res.Steps[i].Status = StepRolledBack
			res.Steps[i].ID = ""
			res.Steps[i].NoteID = ""
		}
		if failed >= 0 {
			res.Steps[failed].Status = StepFailed
			res.Steps[failed].Error = stepErr.Error()
		}
		metrics.RecordBatchFailed()
		if !errors.Is(err, repository.ErrStorage) {
			err = fmt.Errorf("%w: %w", repository.ErrStorage, err)
		}
		return res, s.storageFailure(ctx, "create_batch", err)
	}

	for i := range res.Steps {
		res.Steps[i].Status = StepCreated
		metrics.RecordEventCreated()
	}
	res.Created = len(res.Steps)
	s.logger.Info(ctx, "events created",
		logger.Strings("ids", res.IDs()),
		logger.Int("count", res.Created),
		logger.Bool("atomic", true),
	)
	return res, nil
}

// runStep creates one record and its note. A returned id with an error means
// the record exists but the note could not be attached.
func runStep(ctx context.Context, st repository.Store, step expansion.Step, author string) (id, noteID string, err error) {
	id, err = st.Create(ctx, step.Fields)
	if err != nil {
		return "", "", err
	}
	if step.Note == "" {
		return id, "", nil
	}
	noteID, err = st.CreateNote(ctx, id, step.Note, author)
	if err != nil {
		return id, "", fmt.Errorf("note: %w", err)
	}
	metrics.RecordNoteCreated()
	return id, noteID, nil
}

func newBatchResult(plan expansion.Plan, atomic bool) BatchResult {
	res := BatchResult{
		Requested: len(plan.Steps),
		Atomic:    atomic,
		Steps:     make([]StepResult, len(plan.Steps)),
	}
	for i, step := range plan.Steps {
		res.Steps[i] = StepResult{Index: step.Index, Date: step.Fields.Date, Status: StepSkipped}
	}
	return res
}
