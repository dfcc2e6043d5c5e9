package generation

// StageState is one slot of the three-stage progress map as displayed to
// the user. Percent is smoothed: it only ever grows within a run, even when
// a later record reports a lower raw figure for the same stage.
type StageState struct {
	Name    string  `json:"name"`
	Status  string  `json:"status"`
	Stats   Stats   `json:"stats"`
	Percent float64 `json:"percent"`
}

func (s StageState) Completed() bool {
	return s.Status == StatusCompleted
}

// Progress reduces incoming records into the three-slot stage map. Each
// record updates only its named stage; the other stages keep their prior
// state. The reducer is monotonic: a stage never goes back from completed
// to pending and its displayed numbers never regress.
type Progress struct {
	stages map[string]*StageState
}

func NewProgress() *Progress {
	stages := make(map[string]*StageState, len(Stages))
	for _, name := range Stages {
		stages[name] = &StageState{Name: name, Status: StatusPending}
	}
	return &Progress{stages: stages}
}

// Apply folds one record in. Records naming an unknown stage are dropped.
func (p *Progress) Apply(rec Record) {
	st, ok := p.stages[rec.Type]
	if !ok {
		return
	}

	if !st.Completed() && rec.Status != "" {
		st.Status = rec.Status
	}
	st.Stats = mergeStats(st.Stats, rec.Stats)

	pct := rec.Stats.Percent
	if st.Completed() {
		pct = 100
	}
	if pct > st.Percent {
		st.Percent = pct
	}
}

// Stage returns the displayed state of a stage; the zero value for an
// unknown name.
func (p *Progress) Stage(name string) StageState {
	if st, ok := p.stages[name]; ok {
		return *st
	}
	return StageState{}
}

// Ordered returns the stage states in their fixed completion order, for
// rendering.
func (p *Progress) Ordered() []StageState {
	out := make([]StageState, 0, len(Stages))
	for _, name := range Stages {
		out = append(out, *p.stages[name])
	}
	return out
}

// Done reports whether all three stages have completed.
func (p *Progress) Done() bool {
	for _, name := range Stages {
		if !p.stages[name].Completed() {
			return false
		}
	}
	return true
}

// mergeStats overlays incoming stats on the previous ones, keeping running
// maxima for the numeric figures so the display never moves backwards.
func mergeStats(prev, in Stats) Stats {
	out := prev
	if in.Difficulty != "" {
		out.Difficulty = in.Difficulty
	}
	if in.Step != "" {
		out.Step = in.Step
	}
	out.EstimatedHours = maxInt(prev.EstimatedHours, in.EstimatedHours)
	out.OutcomesCount = maxInt(prev.OutcomesCount, in.OutcomesCount)
	out.SectionCount = maxInt(prev.SectionCount, in.SectionCount)
	out.WordCount = maxInt(prev.WordCount, in.WordCount)
	out.QuestionCount = maxInt(prev.QuestionCount, in.QuestionCount)
	out.OptionCount = maxInt(prev.OptionCount, in.OptionCount)
	if in.Percent > prev.Percent {
		out.Percent = in.Percent
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
