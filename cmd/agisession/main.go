// Package main provides a thin composition-root CLI that exercises an
// AGISystem2 session against the worked examples spec.md §8 describes:
// transitive inheritance, property inheritance with an explicit
// override, a compound-consequent rule, a multi-hole query, mutual-
// exclusion contradiction rejection, and an HDC unbind over a larger
// fact base. It is a demonstration harness, not a production server —
// see internal/session for the embeddable library surface.
package main

import (
	"log"

	"agisystem2/core/internal/config"
	"agisystem2/core/internal/session"
	"agisystem2/core/internal/theory"
	"agisystem2/core/internal/types"
)

func main() {
	log.Println("AGISystem2 session harness starting")

	runTransitiveChainScenario()
	runInheritanceOverrideScenario()
	runCompoundRuleScenario()
	runMultiHoleQueryScenario()
	runMutualExclusionScenario()
	runHDCUnbindScenario()

	log.Println("AGISystem2 session harness finished")
}

func newScenarioSession(name string, priority string, t *theory.Theory) (*session.Session, error) {
	cfg := config.Default()
	cfg.ReasoningPriority = priority
	s, err := session.New(cfg, "scenario:"+name, []*theory.Theory{t})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runTransitiveChainScenario() {
	s, err := newScenarioSession("animal-kingdom", "symbolic", animalTheory())
	if err != nil {
		log.Fatalf("animal-kingdom: failed to build session: %v", err)
	}
	goal := theory.Statement("isA", "Dog", "LivingThing")
	obj := s.Prove(goal)
	log.Printf("[transitive-chain] prove(isA Dog LivingThing) = valid:%v method:%s steps:%d", obj.Valid, obj.Method, len(obj.Steps))
}

func runInheritanceOverrideScenario() {
	s, err := newScenarioSession("bird-properties", "symbolic", birdTheory())
	if err != nil {
		log.Fatalf("bird-properties: failed to build session: %v", err)
	}
	goal := theory.Statement("can", "Penguin", "Fly")
	obj := s.Prove(goal)
	log.Printf("[inheritance-override] prove(can Penguin Fly) = valid:%v (expect false: explicit negation overrides inherited property)", obj.Valid)
}

func runCompoundRuleScenario() {
	s, err := newScenarioSession("yumpus-rompus-tumpus", "symbolic", compoundRuleTheory())
	if err != nil {
		log.Fatalf("yumpus-rompus-tumpus: failed to build session: %v", err)
	}
	goal := theory.Statement("isA", "Sally", "Tumpus")
	obj := s.Prove(goal)
	log.Printf("[compound-rule] prove(isA Sally Tumpus) = valid:%v method:%s", obj.Valid, obj.Method)
}

func runMultiHoleQueryScenario() {
	s, err := newScenarioSession("sales-ledger", "symbolic", salesTheory())
	if err != nil {
		log.Fatalf("sales-ledger: failed to build session: %v", err)
	}
	pattern := theory.Statement("sell", "?who", "Book", "?to")
	result := s.Query(pattern)
	log.Printf("[multi-hole-query] query(sell ?who Book ?to) = success:%v bindings:%d", result.Success, len(result.Bindings))
	for _, b := range result.Bindings {
		log.Printf("  who=%s to=%s (source=%s confidence=%.2f)", b.Values["who"], b.Values["to"], b.Source, b.Confidence)
	}
}

func runMutualExclusionScenario() {
	s, err := newScenarioSession("household-states", "symbolic", householdTheory())
	if err != nil {
		log.Fatalf("household-states: failed to build session: %v", err)
	}
	program := []types.Statement{
		theory.Statement("hasState", "Door", "Closed"),
		theory.Statement("hasState", "Window", "Open"),
	}
	result := s.Learn(program)
	log.Printf("[mutual-exclusion] learn([hasState Door Closed, hasState Window Open]) = success:%v factCount:%d (expect false/0: Door is already Open)", result.Success, result.FactCount)
	if _, err := s.Resolve("Window"); err == nil {
		log.Printf("[mutual-exclusion] unexpected: Window was interned despite the batch being rejected")
	}
}

func runHDCUnbindScenario() {
	s, err := newScenarioSession("residency-records", "holographic", residencyTheory())
	if err != nil {
		log.Fatalf("residency-records: failed to build session: %v", err)
	}
	inspect := s.Inspect()
	log.Printf("[hdc-unbind] loaded %d facts over a %d-entity vocabulary (geometry=%d, strategy=%s)", inspect.FactCount, inspect.VocabularySize, inspect.Geometry, inspect.StrategyID)

	pairs := citizensOf()
	sample := pairs[len(pairs)/2]
	pattern := theory.Statement("livesIn", sample.Person, "?city")
	result := s.Query(pattern)
	correct := false
	for _, b := range result.Bindings {
		if b.Values["city"] == sample.City {
			correct = true
		}
	}
	log.Printf("[hdc-unbind] query(livesIn %s ?city) recovered %s (expected %s): %v", sample.Person, firstCityOrNone(result.Bindings), sample.City, correct)
	log.Printf("[hdc-unbind] stats: %+v", s.Inspect().Stats)
}

func firstCityOrNone(bindings []session.BindingView) string {
	for _, b := range bindings {
		if c, ok := b.Values["city"]; ok {
			return c
		}
	}
	return "<none>"
}
