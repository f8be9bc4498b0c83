package analysis

import (
	"sort"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/stats"
)

// topicAcc accumulates one (subject, topic) group during the fold.
type topicAcc struct {
	scores []float64
}

// aggregate folds the given assessments into per-subject summaries:
// subject -> topic -> {average, attempts} plus the subject rollup.
//
// The result is deterministic regardless of input order: subjects and
// topics come out sorted alphabetically and best/worst ties resolve to
// the alphabetically first name. Empty input yields an empty slice, not
// an error.
func aggregate(assessments []*insight.Assessment) []insight.SubjectSummary {
	bySubject := make(map[string]map[string]*topicAcc)
	for _, a := range assessments {
		topics, ok := bySubject[a.Subject]
		if !ok {
			topics = make(map[string]*topicAcc)
			bySubject[a.Subject] = topics
		}
		acc, ok := topics[a.Topic]
		if !ok {
			acc = &topicAcc{}
			topics[a.Topic] = acc
		}
		acc.scores = append(acc.scores, a.Score)
	}

	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	out := make([]insight.SubjectSummary, 0, len(subjects))
	for _, subject := range subjects {
		topics := bySubject[subject]

		names := make([]string, 0, len(topics))
		for t := range topics {
			names = append(names, t)
		}
		sort.Strings(names)

		summary := insight.SubjectSummary{
			Subject: subject,
			Topics:  make([]insight.TopicSummary, 0, len(names)),
		}

		var all []float64
		for _, name := range names {
			acc := topics[name]
			avg, _ := stats.Mean(acc.scores)
			ts := insight.TopicSummary{
				Subject:  subject,
				Topic:    name,
				AvgScore: avg,
				Attempts: len(acc.scores),
			}
			summary.Topics = append(summary.Topics, ts)
			all = append(all, acc.scores...)

			// strict comparisons keep the alphabetically first topic on
			// ties since names iterate sorted.
			if summary.BestTopic == "" || avg > topicAvg(summary.Topics, summary.BestTopic) {
				summary.BestTopic = name
			}
			if summary.WorstTopic == "" || avg < topicAvg(summary.Topics, summary.WorstTopic) {
				summary.WorstTopic = name
			}
		}

		summary.Count = len(all)
		summary.Mean, _ = stats.Mean(all)
		summary.StdDev, _ = stats.StdDev(all)

		out = append(out, summary)
	}

	return out
}

func topicAvg(topics []insight.TopicSummary, name string) float64 {
	for _, t := range topics {
		if t.Topic == name {
			return t.AvgScore
		}
	}
	return 0
}

// allTopics flattens subject summaries into one topic list, sorted by
// ascending average score with alphabetical tie-breaks.
func allTopics(summaries []insight.SubjectSummary) []insight.TopicSummary {
	var out []insight.TopicSummary
	for _, s := range summaries {
		out = append(out, s.Topics...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgScore != out[j].AvgScore {
			return out[i].AvgScore < out[j].AvgScore
		}
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// bestAndWorstSubject picks the highest and lowest mean subjects,
// breaking ties alphabetically. Returns empty strings on empty input.
func bestAndWorstSubject(summaries []insight.SubjectSummary) (best, worst string) {
	for _, s := range summaries {
		// summaries iterate alphabetically, strict comparisons keep the
		// first name on equal means.
		if best == "" || s.Mean > subjectMean(summaries, best) {
			best = s.Subject
		}
		if worst == "" || s.Mean < subjectMean(summaries, worst) {
			worst = s.Subject
		}
	}
	return best, worst
}

func subjectMean(summaries []insight.SubjectSummary, subject string) float64 {
	for _, s := range summaries {
		if s.Subject == subject {
			return s.Mean
		}
	}
	return 0
}
