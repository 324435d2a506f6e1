package services

import (
	"fmt"
	"log"
)

// SideEffect is one post-commit task. Silent effects (notifications,
// cache writes) log their failures without contributing a warning;
// everything else surfaces as a warning string on the success envelope.
type SideEffect struct {
	Name   string
	Silent bool
	Run    func() error
}

// runSideEffects executes the tasks in order, capturing every failure.
// Nothing here can abort the already-committed transition; a panic in
// one task is recovered and the remaining tasks still run.
func runSideEffects(effects []SideEffect) []string {
	var warnings []string

	for _, effect := range effects {
		if effect.Run == nil {
			continue
		}
		if err := runSideEffect(effect); err != nil {
			log.Printf("side effect %s failed: %v", effect.Name, err)
			if !effect.Silent {
				warnings = append(warnings, fmt.Sprintf("%s: %v", effect.Name, err))
			}
		}
	}

	return warnings
}

func runSideEffect(effect SideEffect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return effect.Run()
}
