package retrain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
)

type recordingScheduler struct {
	jobs []Job
	err  error
}

func (r *recordingScheduler) Schedule(_ context.Context, job Job) error {
	r.jobs = append(r.jobs, job)
	return r.err
}

func TestCountSamples(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"header and two rows", "h1,h2\n1,2\n3,4\n", 2},
		{"no trailing newline", "h1,h2\n1,2\n3,4", 2},
		{"empty", "", 0},
		{"header only", "h1,h2\n", 0},
		{"crlf", "h1,h2\r\n1,2\r\n3,4\r\n", 2},
		{"bare cr", "h1,h2\r1,2\r3,4", 2},
		{"blank lines count", "h\n\n\n", 2},
		{"unicode line separator", "h\u20281\u20292", 2},
		{"form feed and vertical tab", "h\f1\v2", 2},
		{"invalid bytes dropped", "h1,h2\n1,2\n\xff\xfe", 1},
		{"invalid bytes inside a row", "h\n1\xff,2\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountSamples([]byte(tt.data)))
		})
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("\n"))
	assert.Equal(t, 2, CountLines("\r\r\n"))
	assert.Equal(t, 1, CountLines("abc"))
	assert.Equal(t, 3, CountLines("a\x1cb\x1dc\x1e"))
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"data.csv", false},
		{"archive.tar.csv", false},
		{".csv", false},
		{"data.txt", true},
		{"data.CSV", true},
		{"data.csv.bak", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServiceRetrain(t *testing.T) {
	sched := &recordingScheduler{}
	svc := NewService(sched)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	res, err := svc.Retrain(context.Background(), []byte("h1, h2\n1,2\n3,4\n"), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, Result{Status: ScheduledStatus, SamplesIngested: 2}, res)

	require.Len(t, sched.jobs, 1)
	job := sched.jobs[0]
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "data.csv", job.Filename)
	assert.Equal(t, int64(15), job.SizeBytes)
	assert.Equal(t, 2, job.Samples)
	assert.Equal(t, []string{"h1", "h2"}, job.Columns)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), job.SubmittedAt)
}

func TestServiceRetrainEmptyFile(t *testing.T) {
	sched := &recordingScheduler{}
	res, err := NewService(sched).Retrain(context.Background(), nil, "data.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, res.SamplesIngested)
	assert.Equal(t, ScheduledStatus, res.Status)
	require.Len(t, sched.jobs, 1)
	assert.Nil(t, sched.jobs[0].Columns)
}

func TestServiceRetrainRejectsNonCSV(t *testing.T) {
	sched := &recordingScheduler{}
	res, err := NewService(sched).Retrain(context.Background(), []byte("h\n1\n"), "data.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, Result{}, res)
	assert.Empty(t, sched.jobs)
}

func TestServiceRetrainSchedulerFailure(t *testing.T) {
	sched := &recordingScheduler{err: errors.New("queue down")}
	_, err := NewService(sched).Retrain(context.Background(), []byte("h\n1\n"), "data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue down")
}

func TestLogScheduler(t *testing.T) {
	s := NewLogScheduler(monitoring.NopLogger())
	assert.NoError(t, s.Schedule(context.Background(), Job{ID: "x", Filename: "a.csv"}))
}
