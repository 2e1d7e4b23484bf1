package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/retrain"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/risk"
)

var (
	attendanceFlag = &cli.Float64Flag{
		Name:     "attendance",
		Usage:    "Attendance percentage [0, 100]",
		Required: true,
	}
	gpaFlag = &cli.Float64Flag{
		Name:     "gpa",
		Usage:    "Grade point average [0, 4]",
		Required: true,
	}
	assignmentsOnTimeFlag = &cli.Float64Flag{
		Name:     "assignments-on-time",
		Usage:    "Fraction of assignments submitted on time [0, 1]",
		Required: true,
	}
	quizAvgFlag = &cli.Float64Flag{
		Name:     "quiz-avg",
		Usage:    "Average quiz score [0, 100]",
		Required: true,
	}
	lmsActivityFlag = &cli.Float64Flag{
		Name:     "lms-activity",
		Usage:    "Normalized LMS activity [0, 1]",
		Required: true,
	}
	explainFlag = &cli.BoolFlag{
		Name:  "explain",
		Usage: "Print per-feature contributions instead of factors",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
	fileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the CSV file",
		Required: true,
	}

	scoreCmd = &cli.Command{
		Name:   "score",
		Usage:  "Score one student offline",
		Action: cmdScore,
		Flags: []cli.Flag{
			attendanceFlag,
			gpaFlag,
			assignmentsOnTimeFlag,
			quizAvgFlag,
			lmsActivityFlag,
			explainFlag,
			formatFlag,
		},
	}

	samplesCmd = &cli.Command{
		Name:   "samples",
		Usage:  "Run the retrain acknowledgement against a local CSV file",
		Action: cmdSamples,
		Flags: []cli.Flag{
			fileFlag,
			formatFlag,
		},
	}
)

func cmdScore(c *cli.Context) error {
	vec, err := risk.NewFeatureVector(risk.Input{
		Attendance:        c.Float64(attendanceFlag.Name),
		GPA:               c.Float64(gpaFlag.Name),
		AssignmentsOnTime: c.Float64(assignmentsOnTimeFlag.Name),
		QuizAvg:           c.Float64(quizAvgFlag.Name),
		LMSActivity:       c.Float64(lmsActivityFlag.Name),
	})
	if err != nil {
		return err
	}

	scorer := risk.NewScorer(risk.DefaultWeights())
	if c.Bool(explainFlag.Name) {
		return encode(c.App.Writer, c.String(formatFlag.Name), scorer.Explain(vec))
	}
	return encode(c.App.Writer, c.String(formatFlag.Name), scorer.Score(vec))
}

func cmdSamples(c *cli.Context) error {
	path := c.String(fileFlag.Name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger := monitoring.NopLogger()
	if getConfig(c).Debug {
		logger = monitoring.NewLogger(monitoring.LogConfig{
			Level:  "debug",
			Format: "text",
			Output: c.App.ErrWriter,
		})
	}

	svc := retrain.NewService(retrain.NewLogScheduler(logger))
	res, err := svc.Retrain(c.Context, data, path)
	if err != nil {
		return err
	}
	return encode(c.App.Writer, c.String(formatFlag.Name), res)
}
