package assessment

import "time"

// Decay advances every mastery value to now.
//
// Timestamps record the last active update of each dimension, not the last
// decay pass. Decay already charged by an earlier pass (the gap between the
// dimension's update and ForgottenAt) is credited back before the full gap
// up to now is charged, so total decay stays linear in wall-clock time no
// matter how often Decay runs. Both terms are combined before being applied,
// which makes a pass with no elapsed time an exact no-op.
func (s *State) Decay(now time.Time) {
	rate := s.settings.LinearDecreasionOfCompetenceValuePerDay
	for i := range s.records {
		r := &s.records[i]
		r.Assessment = decayed(r.Assessment, r.AssessedAt, r.ForgottenAt, now, rate)
		r.Learning = decayed(r.Learning, r.LearnedAt, r.ForgottenAt, now, rate)
		r.ForgottenAt = now
	}
}

func decayed(v float64, updatedAt, forgottenAt, now time.Time, rate float64) float64 {
	var delta float64
	if updatedAt.Before(forgottenAt) {
		delta += days(forgottenAt.Sub(updatedAt)) * rate
	}
	delta -= days(now.Sub(updatedAt)) * rate
	if delta == 0 {
		return v
	}
	return clamp01(v + delta)
}
