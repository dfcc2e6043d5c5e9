package generation

import "testing"

func TestProgress_Apply(t *testing.T) {
	p := NewProgress()

	for _, st := range p.Ordered() {
		if st.Status != StatusPending {
			t.Errorf("stage %s starts %s, want pending", st.Name, st.Status)
		}
	}

	p.Apply(Record{Type: StageContent, Status: StatusPending, Stats: Stats{Percent: 40}})
	if got := p.Stage(StageContent).Percent; got != 40 {
		t.Errorf("Percent = %v, want 40", got)
	}

	// a lower raw figure never moves the display backwards
	p.Apply(Record{Type: StageContent, Status: StatusPending, Stats: Stats{Percent: 25}})
	if got := p.Stage(StageContent).Percent; got != 40 {
		t.Errorf("Percent regressed to %v, want 40", got)
	}

	// completion pins the stage at 100
	p.Apply(Record{Type: StageContent, Status: StatusCompleted, Stats: Stats{SectionCount: 3}})
	st := p.Stage(StageContent)
	if !st.Completed() || st.Percent != 100 {
		t.Errorf("stage = %+v, want completed at 100", st)
	}
	if st.Stats.SectionCount != 3 {
		t.Errorf("SectionCount = %d, want 3", st.Stats.SectionCount)
	}

	// completed never goes back to pending
	p.Apply(Record{Type: StageContent, Status: StatusPending, Stats: Stats{Percent: 10}})
	if st := p.Stage(StageContent); !st.Completed() || st.Percent != 100 {
		t.Errorf("stage regressed: %+v", st)
	}

	// other stages keep their prior state
	if st := p.Stage(StageDetails); st.Status != StatusPending {
		t.Errorf("details stage = %+v, want untouched", st)
	}
}

func TestProgress_Apply_unknownStage(t *testing.T) {
	p := NewProgress()
	p.Apply(Record{Type: "deploy", Status: StatusCompleted})
	if len(p.Ordered()) != 3 {
		t.Fatalf("Ordered() len = %d, want 3", len(p.Ordered()))
	}
	if p.Done() {
		t.Error("Done() = true after only an unknown stage record")
	}
}

func TestProgress_Apply_mergesStats(t *testing.T) {
	p := NewProgress()
	p.Apply(Record{Type: StageDetails, Stats: Stats{Difficulty: "easy", OutcomesCount: 2}})
	p.Apply(Record{Type: StageDetails, Stats: Stats{EstimatedHours: 4}})

	st := p.Stage(StageDetails).Stats
	if st.Difficulty != "easy" || st.OutcomesCount != 2 || st.EstimatedHours != 4 {
		t.Errorf("merged stats = %+v", st)
	}
}

func TestProgress_Done(t *testing.T) {
	p := NewProgress()
	for _, name := range Stages {
		if p.Done() {
			t.Fatal("Done() = true before all stages completed")
		}
		p.Apply(Record{Type: name, Status: StatusCompleted})
	}
	if !p.Done() {
		t.Error("Done() = false after all stages completed")
	}
}
