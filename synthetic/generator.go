// Package synthetic produces the stochastic record collections the
// engine analyzes. It is an opaque data source: the engine never depends
// on how the records came to be, only that they form a valid dataset.
package synthetic

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/insightdash/insight"
)

// subjects and their topics. Every topic belongs to exactly one subject,
// the generator never crosses them.
var topicsBySubject = map[string][]string{
	"Mathematics":      {"Algebra", "Geometry", "Calculus", "Statistics", "Trigonometry"},
	"Science":          {"Physics", "Chemistry", "Biology", "Environmental Science", "Lab Skills"},
	"English":          {"Grammar", "Literature", "Writing", "Reading Comprehension", "Vocabulary"},
	"History":          {"Ancient History", "Modern History", "Geography", "Civics", "World Wars"},
	"Computer Science": {"Programming", "Data Structures", "Algorithms", "Databases", "Web Development"},
}

// Config controls one generation run.
type Config struct {
	// NumStudents to generate. Defaults to 100.
	NumStudents int

	// Seed for the random source. Equal configs generate identical
	// datasets.
	Seed int64

	// Start of the generated time window. Defaults to Days before now.
	Start time.Time

	// Days the generated records span. Defaults to 180.
	Days int
}

func (c Config) withDefaults() Config {
	if c.NumStudents <= 0 {
		c.NumStudents = 100
	}
	if c.Days <= 0 {
		c.Days = 180
	}
	if c.Start.IsZero() {
		c.Start = time.Now().UTC().AddDate(0, 0, -c.Days).Truncate(24 * time.Hour)
	}
	return c
}

// traits are the latent per-student parameters driving the simulation.
// They shape the records but are not part of the dataset contract.
type traits struct {
	baseAbility  float64
	learningRate float64
	engagement   float64
}

// Generator produces datasets from a seeded random source.
type Generator struct {
	// RunID tags one generation run, useful for correlating a dataset
	// with the job that produced it.
	RunID string

	cfg      Config
	rng      *rand.Rand
	subjects []string
}

// New creates a generator with the provided config.
func New(cfg Config) *Generator {
	cfg = cfg.withDefaults()

	subjects := make([]string, 0, len(topicsBySubject))
	for s := range topicsBySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	return &Generator{
		RunID:    uuid.NewString(),
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		subjects: subjects,
	}
}

// Generate produces a complete dataset: student profiles, scored
// assessments with improvement drift over the time window, and study
// session logs. The result always passes (*insight.Dataset).Validate.
func (g *Generator) Generate() *insight.Dataset {
	ds := &insight.Dataset{}

	latents := make(map[string]traits, g.cfg.NumStudents)
	for i := 0; i < g.cfg.NumStudents; i++ {
		student := &insight.Student{
			ID:                fmt.Sprintf("STU%03d", i+1),
			Name:              fmt.Sprintf("Student %d", i+1),
			GradeLevel:        9 + g.rng.Intn(4),
			StudyHoursPerWeek: 5 + g.rng.Intn(25),
			CreatedAt:         g.cfg.Start,
		}
		ds.Students = append(ds.Students, student)

		latents[student.ID] = traits{
			baseAbility:  g.rng.NormFloat64()*15 + 70,
			learningRate: 0.5 + g.rng.Float64()*1.5,
			engagement:   0.3 + g.rng.Float64()*0.7,
		}
	}

	for _, student := range ds.Students {
		ds.Assessments = append(ds.Assessments, g.assessmentsFor(student, latents[student.ID])...)
		ds.Sessions = append(ds.Sessions, g.sessionsFor(student, latents[student.ID])...)
	}

	return ds
}

func (g *Generator) assessmentsFor(student *insight.Student, t traits) []*insight.Assessment {
	n := 20 + g.rng.Intn(11)
	out := make([]*insight.Assessment, 0, n)

	// spread n assessments over the window in chronological order so the
	// seq numbers line up with the dates.
	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = g.rng.Intn(g.cfg.Days)
	}
	sort.Ints(offsets)

	for i := 0; i < n; i++ {
		subject := g.subjects[g.rng.Intn(len(g.subjects))]
		topics := topicsBySubject[subject]

		progress := float64(i) / float64(n) * t.learningRate
		score := t.baseAbility + progress*10 + g.rng.NormFloat64()*5

		out = append(out, &insight.Assessment{
			StudentID:        student.ID,
			Subject:          subject,
			Topic:            topics[g.rng.Intn(len(topics))],
			Seq:              i,
			TakenAt:          g.cfg.Start.AddDate(0, 0, offsets[i]),
			Score:            clampScore(score),
			TimeSpentMinutes: 15 + g.rng.Intn(75),
		})
	}

	return out
}

func (g *Generator) sessionsFor(student *insight.Student, t traits) []*insight.StudySession {
	// roughly two hours per session over the window's weeks.
	weeks := g.cfg.Days / 7
	n := student.StudyHoursPerWeek * weeks / 2
	out := make([]*insight.StudySession, 0, n)

	for i := 0; i < n; i++ {
		duration := int(30 * t.engagement * (0.8 + g.rng.Float64()*1.2))

		out = append(out, &insight.StudySession{
			StudentID:       student.ID,
			Subject:         g.subjects[g.rng.Intn(len(g.subjects))],
			HeldAt:          g.cfg.Start.AddDate(0, 0, g.rng.Intn(g.cfg.Days)),
			DurationMinutes: duration,
			Completed:       g.rng.Float64() < 0.85,
		})
	}

	return out
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
