package storyboard

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ivlev/numate/internal/clock"
	"github.com/ivlev/numate/internal/easing"
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/subject"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func newBoard() (*Storyboard, *clock.Manual) {
	m := clock.NewManual(epoch)
	return New(m.Func()), m
}

func mustAdd[T any](t *testing.T, sb *Storyboard, s subject.Subject[T], target Target[T], d time.Duration) *Key[T] {
	t.Helper()
	k, err := Add(sb, s, target, d)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return k
}

func mustUpdate(t *testing.T, sb *Storyboard) {
	t.Helper()
	if err := sb.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestSingleLinearKey(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	completions := 0
	k := mustAdd(t, sb, subject.Ref(&x), Value(10.0), 2*time.Second).Then(func() { completions++ })

	tests := []struct {
		at       time.Duration
		want     float64
		finished bool
	}{
		{0, 0, false},
		{time.Second, 5, false},
		{2 * time.Second, 10, true},
		{3 * time.Second, 10, true},
	}

	for _, tt := range tests {
		m.Set(epoch.Add(tt.at))
		mustUpdate(t, sb)
		if x != tt.want {
			t.Errorf("at %v: x = %v, want %v", tt.at, x, tt.want)
		}
		if k.Finished() != tt.finished {
			t.Errorf("at %v: finished = %v, want %v", tt.at, k.Finished(), tt.finished)
		}
	}

	if completions != 1 {
		t.Errorf("completion fired %d times, want 1", completions)
	}
	if k.State() != Finished {
		t.Errorf("state = %v, want finished", k.State())
	}
	if !sb.Finished() {
		t.Error("storyboard should be finished")
	}
}

func TestFinishedKeyIsIdempotent(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	completions := 0
	mustAdd(t, sb, subject.Ref(&x), Value(1.0), time.Second).Then(func() { completions++ })
	sb.OnFinished(func() {})

	m.Advance(2 * time.Second)
	mustUpdate(t, sb)

	// an outside write after completion must survive later ticks
	x = 42
	for i := 0; i < 3; i++ {
		m.Advance(time.Second)
		mustUpdate(t, sb)
	}
	if x != 42 {
		t.Errorf("finished key rewrote its subject: x = %v", x)
	}
	if completions != 1 {
		t.Errorf("completion fired %d times, want 1", completions)
	}
}

func TestCompleteChainsKeys(t *testing.T) {
	sb, m := newBoard()
	a, b := 0.0, 100.0
	readsOfB := 0
	trackedB := subject.Func(func() float64 {
		readsOfB++
		return b
	}, func(v float64) { b = v })

	keyA := mustAdd(t, sb, subject.Ref(&a), Value(1.0), 2*time.Second)
	sb.Complete()
	keyB := mustAdd(t, sb, trackedB, Value(0.0), 2*time.Second)

	if !keyB.Start().Equal(epoch.Add(2 * time.Second)) {
		t.Fatalf("key B starts at %v, want %v", keyB.Start(), epoch.Add(2*time.Second))
	}

	for _, at := range []time.Duration{0, 500 * time.Millisecond, 1999 * time.Millisecond} {
		m.Set(epoch.Add(at))
		mustUpdate(t, sb)
		if keyB.Started() {
			t.Fatalf("key B started at %v", at)
		}
		if _, ok := keyB.StartValue(); ok {
			t.Fatalf("key B resolved its start value at %v", at)
		}
		if keyB.State() != Pending {
			t.Fatalf("key B state = %v at %v", keyB.State(), at)
		}
	}
	if readsOfB != 0 {
		t.Errorf("subject of key B was read %d times before its start", readsOfB)
	}

	m.Set(epoch.Add(2 * time.Second))
	mustUpdate(t, sb)
	if !keyA.Finished() {
		t.Error("key A should be finished at 2s")
	}
	if !keyB.Started() {
		t.Error("key B should start at 2s")
	}
	if v, _ := keyB.StartValue(); v != 100 {
		t.Errorf("key B start value = %v, want 100", v)
	}

	m.Set(epoch.Add(3 * time.Second))
	mustUpdate(t, sb)
	if b != 50 {
		t.Errorf("b = %v at 3s, want 50", b)
	}
}

func TestLinkedTargetResolvedOnce(t *testing.T) {
	sb, m := newBoard()
	x, y := 0.0, 8.0
	k := mustAdd(t, sb, subject.Ref(&x), Linked(subject.Ref(&y)), 4*time.Second)

	mustUpdate(t, sb)
	y = 1000 // changes after activation must not retarget the key

	m.Advance(2 * time.Second)
	mustUpdate(t, sb)
	if x != 4 {
		t.Errorf("x = %v at midpoint, want 4", x)
	}

	m.Advance(2 * time.Second)
	mustUpdate(t, sb)
	if x != 8 {
		t.Errorf("x = %v at end, want 8", x)
	}
	if v, ok := k.TargetValue(); !ok || v != 8 {
		t.Errorf("TargetValue() = %v, %v; want 8, true", v, ok)
	}
	if k.Kind() != TargetLinked {
		t.Errorf("Kind() = %v", k.Kind())
	}
}

func TestComputedTargetCalledOnce(t *testing.T) {
	sb, m := newBoard()
	x, y := 0.0, 2.0
	calls := 0
	mustAdd(t, sb, subject.Ref(&x), Computed(func() float64 {
		calls++
		return y + 1
	}), time.Second)

	for i := 0; i < 4; i++ {
		mustUpdate(t, sb)
		y += 10
		m.Advance(400 * time.Millisecond)
	}
	if calls != 1 {
		t.Errorf("computed target called %d times, want 1", calls)
	}
	if x != 3 {
		t.Errorf("x = %v, want 3", x)
	}
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	sb, _ := newBoard()
	x := 1
	done := false
	k := mustAdd(t, sb, subject.Ref(&x), Value(7), 0).Then(func() { done = true })

	mustUpdate(t, sb)
	if x != 7 || !k.Finished() || !done {
		t.Errorf("x = %d, finished = %v, callback = %v", x, k.Finished(), done)
	}
}

func TestSkippedWindowStillCompletes(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	sb.Delay(time.Second)
	k := mustAdd(t, sb, subject.Ref(&x), Value(3.0), 100*time.Millisecond)

	mustUpdate(t, sb)
	if k.Started() {
		t.Fatal("key started before its start time")
	}

	// a long stall jumps straight past the key's whole window
	m.Advance(5 * time.Second)
	mustUpdate(t, sb)
	if !k.Finished() || x != 3 {
		t.Errorf("finished = %v, x = %v; want true, 3", k.Finished(), x)
	}
}

func TestEmptyStoryboard(t *testing.T) {
	sb, _ := newBoard()
	fired := 0
	sb.OnFinished(func() { fired++ })

	if !sb.Finished() {
		t.Error("empty storyboard should be finished before any update")
	}
	for i := 0; i < 3; i++ {
		mustUpdate(t, sb)
	}
	if fired != 1 {
		t.Errorf("onFinished fired %d times, want 1", fired)
	}
}

func TestOnFinishedAndCursorSnap(t *testing.T) {
	sb, m := newBoard()
	a, b := 0.0, 0.0
	mustAdd(t, sb, subject.Ref(&a), Value(1.0), 3*time.Second)
	mustAdd(t, sb, subject.Ref(&b), Value(1.0), time.Second)
	fired := 0
	sb.OnFinished(func() { fired++ })

	m.Advance(1500 * time.Millisecond)
	mustUpdate(t, sb)
	if sb.Finished() {
		t.Fatal("finished too early")
	}

	m.Advance(10 * time.Second)
	mustUpdate(t, sb)
	mustUpdate(t, sb)
	if !sb.Finished() || fired != 1 {
		t.Errorf("finished = %v, onFinished fired %d times", sb.Finished(), fired)
	}
	if want := epoch.Add(3 * time.Second); !sb.Cursor().Equal(want) {
		t.Errorf("cursor = %v, want snapped to %v", sb.Cursor(), want)
	}
}

func TestAuthoringOrderLastWriteWins(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	mustAdd(t, sb, subject.Ref(&x), Value(10.0), 2*time.Second)
	mustAdd(t, sb, subject.Ref(&x), Value(-10.0), 2*time.Second)

	// both keys snapshot x == 0 on the first tick
	mustUpdate(t, sb)
	m.Advance(time.Second)
	mustUpdate(t, sb)
	if x != -5 {
		t.Errorf("x = %v, want -5 from the later key", x)
	}
}

func TestEasedProgress(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	mustAdd(t, sb, subject.Ref(&x), Value(1.0), 2*time.Second).Eased(easing.InOutCubic)

	m.Advance(500 * time.Millisecond)
	mustUpdate(t, sb)
	if abs(x-0.087230137) > 1e-6 {
		t.Errorf("x = %.9f at quarter time, want inOutCubic(0.25)", x)
	}
}

func TestEndpointsForEveryCurve(t *testing.T) {
	for _, name := range easing.Names() {
		t.Run(name, func(t *testing.T) {
			curve, _ := easing.ByName(name)
			sb, m := newBoard()
			x := 3.0
			mustAdd(t, sb, subject.Ref(&x), Value(-7.0), time.Second).Eased(curve)

			mustUpdate(t, sb)
			if abs(x-3) > 1e-9 {
				t.Errorf("at start x = %v, want 3", x)
			}
			m.Advance(time.Second)
			mustUpdate(t, sb)
			if abs(x+7) > 1e-9 {
				t.Errorf("at end x = %v, want -7", x)
			}
		})
	}
}

func TestMixedValueTypes(t *testing.T) {
	sb, m := newBoard()
	pos := interp.Vec3{0, 0, 0}
	count := 0
	tint := interp.RGBA{R: 0, G: 0, B: 0, A: 1}

	mustAdd(t, sb, subject.Ref(&pos), Value(interp.Vec3{2, 4, 6}), 2*time.Second)
	mustAdd(t, sb, subject.Ref(&count), Value(10), 2*time.Second)
	mustAdd(t, sb, subject.Ref(&tint), Value(interp.RGBA{R: 1, G: 1, B: 1, A: 1}), 2*time.Second)

	m.Advance(time.Second)
	mustUpdate(t, sb)
	if pos != (interp.Vec3{1, 2, 3}) {
		t.Errorf("pos = %v", pos)
	}
	if count != 5 {
		t.Errorf("count = %d", count)
	}
	if abs(tint.R-0.5) > 1e-9 || abs(tint.A-1) > 1e-9 {
		t.Errorf("tint = %+v", tint)
	}
}

func TestConfigurationErrors(t *testing.T) {
	sb, _ := newBoard()
	x := 0.0

	if _, err := Add(sb, subject.Ref(&x), Value(1.0), -time.Second); !errors.Is(err, ErrNegativeDuration) {
		t.Errorf("negative duration: got %v", err)
	}

	name := "label"
	if _, err := Add(sb, subject.Ref(&name), Value("other"), time.Second); !errors.Is(err, interp.ErrUnsupportedType) {
		t.Errorf("unsupported type: got %v", err)
	}

	if _, err := Add[float64](sb, nil, Value(1.0), time.Second); err == nil {
		t.Error("nil subject should be rejected")
	}
	if _, err := Add[float64](sb, subject.Ref(&x), nil, time.Second); err == nil {
		t.Error("nil target should be rejected")
	}
	if sb.Len() != 0 {
		t.Errorf("rejected keys were added: %d", sb.Len())
	}
}

func TestCustomRegistry(t *testing.T) {
	type meters float64
	r := interp.NewRegistry()
	interp.Register(r, interp.Func[meters](interp.Float[meters]))

	m := clock.NewManual(epoch)
	sb := New(m.Func(), WithRegistry(r))
	d := meters(0)
	if _, err := Add(sb, subject.Ref(&d), Value(meters(4)), time.Second); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	f := 0.0
	if _, err := Add(sb, subject.Ref(&f), Value(1.0), time.Second); !errors.Is(err, interp.ErrUnsupportedType) {
		t.Errorf("float64 should be unknown to the custom registry, got %v", err)
	}
}

func TestResolutionErrorRetries(t *testing.T) {
	sb, m := newBoard()
	x, y := 0.0, 0.0
	boom := errors.New("source unavailable")
	fail := true

	failing := mustAdd(t, sb, subject.Ref(&x), ComputedErr(func() (float64, error) {
		if fail {
			return 0, boom
		}
		return 10, nil
	}), 2*time.Second)
	healthy := mustAdd(t, sb, subject.Ref(&y), Value(4.0), 2*time.Second)

	m.Advance(time.Second)
	err := sb.Update()
	if !errors.Is(err, ErrResolve) || !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want ErrResolve wrapping %v", err, boom)
	}
	if failing.Started() || failing.Finished() {
		t.Error("failing key must stay unstarted")
	}
	if failing.State() != Active {
		t.Errorf("failing key state = %v, want active", failing.State())
	}
	if _, ok := failing.StartValue(); ok {
		t.Error("failing key must not keep a start value")
	}
	if y != 2 {
		t.Errorf("healthy key was not processed in the failing tick: y = %v", y)
	}

	// past the nominal window: the retry must still happen
	fail = false
	m.Advance(5 * time.Second)
	mustUpdate(t, sb)
	if !failing.Finished() || x != 10 {
		t.Errorf("retry: finished = %v, x = %v", failing.Finished(), x)
	}
	if !healthy.Finished() || !sb.Finished() {
		t.Error("storyboard should be finished after the retry")
	}
}

func TestLinkedFallibleSubject(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	boom := errors.New("read failed")
	src := subject.Checked(func() (float64, error) { return 0, boom }, nil)
	mustAdd(t, sb, subject.Ref(&x), Linked(src), time.Second)

	m.Advance(time.Second)
	if err := sb.Update(); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
	if sb.Finished() {
		t.Error("storyboard must not finish while a key cannot resolve")
	}
}

func TestNowResetsCursor(t *testing.T) {
	sb, m := newBoard()
	m.Advance(10 * time.Second)
	sb.Now()
	x := 0.0
	k := mustAdd(t, sb, subject.Ref(&x), Value(1.0), time.Second)
	if !k.Start().Equal(epoch.Add(10 * time.Second)) {
		t.Errorf("key start = %v", k.Start())
	}
	if !k.End().Equal(epoch.Add(11 * time.Second)) {
		t.Errorf("key end = %v", k.End())
	}
}

func TestProgressClamped(t *testing.T) {
	k := &Key[float64]{start: epoch, duration: 2 * time.Second}
	tests := []struct {
		at   time.Duration
		want float64
	}{
		{-time.Second, 0},
		{0, 0},
		{500 * time.Millisecond, 0.25},
		{2 * time.Second, 1},
		{time.Hour, 1},
	}
	for _, tt := range tests {
		if got := k.progress(epoch.Add(tt.at)); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("progress(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestDuringReplacesDuration(t *testing.T) {
	sb, m := newBoard()
	x := 0.0
	k, err := mustAdd(t, sb, subject.Ref(&x), Value(4.0), 0).During(4 * time.Second)
	if err != nil {
		t.Fatalf("During failed: %v", err)
	}
	sb.Complete()
	if !sb.Cursor().Equal(epoch.Add(4 * time.Second)) {
		t.Fatalf("cursor after Complete = %v", sb.Cursor())
	}

	mustUpdate(t, sb)
	m.Advance(2 * time.Second)
	mustUpdate(t, sb)
	if abs(x-2) > 1e-9 {
		t.Errorf("x = %v, want 2", x)
	}

	if _, err := k.During(time.Second); err != nil {
		t.Errorf("During on a started key failed: %v", err)
	}
	if k.Duration() != 4*time.Second {
		t.Errorf("During changed a started key: %v", k.Duration())
	}
}

func TestDuringRejectsNegative(t *testing.T) {
	sb, _ := newBoard()
	x := 0.0
	k := mustAdd(t, sb, subject.Ref(&x), Value(1.0), time.Second)

	if _, err := k.During(-3 * time.Second); !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("During(-3s) error = %v, want ErrNegativeDuration", err)
	}
	if k.Duration() != time.Second {
		t.Errorf("rejected During changed the duration to %v", k.Duration())
	}
}

func TestFallibleSubjectStartValue(t *testing.T) {
	sb, m := newBoard()
	boom := errors.New("sensor offline")
	slot := 7.0
	fail := true
	x := subject.Checked(func() (float64, error) {
		if fail {
			return 0, boom
		}
		return slot, nil
	}, func(v float64) { slot = v })

	k := mustAdd(t, sb, x, Value(10.0), 2*time.Second)

	err := sb.Update()
	if !errors.Is(err, ErrResolve) || !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want ErrResolve wrapping %v", err, boom)
	}
	if k.Started() {
		t.Error("key must stay unstarted while its subject cannot be read")
	}
	if _, ok := k.StartValue(); ok {
		t.Error("failed read must not leave a start value")
	}
	if slot != 7 {
		t.Errorf("subject was written after a failed read: %v", slot)
	}

	fail = false
	mustUpdate(t, sb)
	if v, ok := k.StartValue(); !ok || v != 7 {
		t.Errorf("start value = %v, %v; want 7", v, ok)
	}

	m.Advance(time.Second)
	mustUpdate(t, sb)
	if abs(slot-8.5) > 1e-9 {
		t.Errorf("half way value = %v, want 8.5", slot)
	}
}
