package services

import (
	"errors"
	"strings"
	"testing"
)

func TestRunSideEffectsKeepsGoingAfterFailures(t *testing.T) {
	var order []string

	warnings := runSideEffects([]SideEffect{
		{Name: "first", Run: func() error {
			order = append(order, "first")
			return nil
		}},
		{Name: "second", Run: func() error {
			order = append(order, "second")
			return errors.New("boom")
		}},
		{Name: "third", Silent: true, Run: func() error {
			order = append(order, "third")
			return errors.New("quiet failure")
		}},
		{Name: "fourth", Run: func() error {
			order = append(order, "fourth")
			return nil
		}},
	})

	if got := strings.Join(order, ","); got != "first,second,third,fourth" {
		t.Fatalf("effects ran out of order: %s", got)
	}
	if len(warnings) != 1 || warnings[0] != "second: boom" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestRunSideEffectsRecoversPanics(t *testing.T) {
	ran := false

	warnings := runSideEffects([]SideEffect{
		{Name: "explosive", Run: func() error {
			panic("kaboom")
		}},
		{Name: "survivor", Run: func() error {
			ran = true
			return nil
		}},
	})

	if !ran {
		t.Fatalf("a panic must not stop the remaining effects")
	}
	if len(warnings) != 1 || warnings[0] != "explosive: panic: kaboom" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestRunSideEffectsSkipsNilTasks(t *testing.T) {
	warnings := runSideEffects([]SideEffect{
		{Name: "empty"},
		{Name: "real", Run: func() error { return nil }},
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}
