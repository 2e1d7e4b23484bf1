// Package retrain acknowledges CSV uploads meant for model retraining. No
// model is trained here; uploads are counted and handed to a Scheduler.
package retrain

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
)

const (
	// ScheduledStatus is the status reported for every accepted upload.
	ScheduledStatus = "Retraining scheduled"

	// UnsupportedFileTypeMessage is returned to clients uploading anything
	// but a .csv file.
	UnsupportedFileTypeMessage = "Only CSV files are supported for retraining"

	csvSuffix = ".csv"
)

// ErrUnsupportedFileType is returned by Retrain when the filename does not
// end in ".csv".
var ErrUnsupportedFileType = errors.New(UnsupportedFileTypeMessage)

// Result is the acknowledgement returned to the uploader.
type Result struct {
	Status          string `json:"status" yaml:"status"`
	SamplesIngested int    `json:"samplesIngested" yaml:"samplesIngested"`
}

// Job describes an accepted upload handed to a Scheduler.
type Job struct {
	ID          string
	Filename    string
	SizeBytes   int64
	Samples     int
	Columns     []string
	SubmittedAt time.Time
}

// Scheduler submits retraining work. Implementations must not block on the
// training itself.
type Scheduler interface {
	Schedule(ctx context.Context, job Job) error
}

// LogScheduler records the job in the log and does nothing else.
type LogScheduler struct {
	logger *monitoring.Logger
}

func NewLogScheduler(logger *monitoring.Logger) *LogScheduler {
	return &LogScheduler{logger: logger}
}

func (s *LogScheduler) Schedule(_ context.Context, job Job) error {
	s.logger.RetrainLogger(job.ID, job.Filename, job.SizeBytes, job.Samples, job.Columns)
	return nil
}

// Service validates uploads and forwards them to its Scheduler.
type Service struct {
	scheduler Scheduler
	now       func() time.Time
}

func NewService(scheduler Scheduler) *Service {
	return &Service{scheduler: scheduler, now: time.Now}
}

// ValidateFilename accepts only names ending in the literal, case-sensitive
// suffix ".csv".
func ValidateFilename(filename string) error {
	if !strings.HasSuffix(filename, csvSuffix) {
		return ErrUnsupportedFileType
	}
	return nil
}

// Retrain counts the samples in data and schedules a job for them.
func (s *Service) Retrain(ctx context.Context, data []byte, filename string) (Result, error) {
	if err := ValidateFilename(filename); err != nil {
		return Result{}, err
	}

	samples := CountSamples(data)
	job := Job{
		ID:          uuid.NewString(),
		Filename:    filename,
		SizeBytes:   int64(len(data)),
		Samples:     samples,
		Columns:     headerColumns(data),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.scheduler.Schedule(ctx, job); err != nil {
		return Result{}, fmt.Errorf("schedule retrain job %s: %w", job.ID, err)
	}

	return Result{Status: ScheduledStatus, SamplesIngested: samples}, nil
}

// headerColumns reads the first CSV record for logging. Malformed headers
// yield nil; they never fail the upload.
func headerColumns(data []byte) []string {
	r := csv.NewReader(strings.NewReader(Decode(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	record, err := r.Read()
	if err != nil {
		return nil
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record
}
