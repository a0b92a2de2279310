package main

import (
	"agisystem2/core/internal/theory"
	"agisystem2/core/internal/types"
)

// animalTheory establishes the Dog/Animal/LivingThing transitive chain:
// isA is declared transitive, so isA(Dog, LivingThing) follows without
// ever being stated directly.
func animalTheory() *theory.Theory {
	return theory.New("animal-kingdom").
		Declare(theory.Transitive("isA")).
		Fact(theory.Statement("isA", "Dog", "Animal")).
		Fact(theory.Statement("isA", "Animal", "LivingThing"))
}

// birdTheory establishes property inheritance with an explicit
// override: Penguin inherits "can Fly" from Bird via isA, but an
// explicit negation blocks the inherited property.
func birdTheory() *theory.Theory {
	return theory.New("bird-properties").
		Declare(theory.Transitive("isA")).
		Declare(theory.Inheritable("can")).
		Fact(theory.Statement("isA", "Penguin", "Bird")).
		Fact(theory.Statement("can", "Bird", "Fly")).
		Fact(theory.Negated(theory.Statement("can", "Penguin", "Fly")))
}

// compoundRuleTheory establishes the Yumpus/Rompus/Tumpus rule: an
// entity that is both a Yumpus and a Rompus is also a Tumpus.
func compoundRuleTheory() *theory.Theory {
	antecedent := types.And(
		types.Leaf(theory.Statement("isA", "?x", "Yumpus")),
		types.Leaf(theory.Statement("isA", "?x", "Rompus")),
	)
	consequent := types.Leaf(theory.Statement("isA", "?x", "Tumpus"))
	return theory.New("yumpus-rompus-tumpus").
		Declare(theory.Transitive("isA")).
		Fact(theory.Statement("isA", "Sally", "Yumpus")).
		Fact(theory.Statement("isA", "Sally", "Rompus")).
		Rule(&types.Rule{Antecedent: antecedent, Consequent: consequent, Confidence: 1.0})
}

// salesTheory establishes two unrelated three-place sell facts, used
// to demonstrate a query with two holes returning a single consistent
// binding.
func salesTheory() *theory.Theory {
	return theory.New("sales-ledger").
		Fact(theory.Statement("sell", "Alice", "Book", "Bob")).
		Fact(theory.Statement("sell", "Carol", "Car", "Dave"))
}

// householdTheory declares Open/Closed as mutually exclusive states of
// the same entity, then pre-commits Door's state to Open so a later
// batch learn containing a contradicting statement can be rejected in
// its entirety.
func householdTheory() *theory.Theory {
	group := []types.Statement{
		theory.Statement("hasState", "?x", "Open"),
		theory.Statement("hasState", "?x", "Closed"),
	}
	return theory.New("household-states").
		Declare(theory.MutualExclusion(group...)).
		Fact(theory.Statement("hasState", "Door", "Open"))
}

// citizensOf returns a deterministic list of (person, city) pairs for
// the HDC unbind demonstration: enough facts that the knowledge base's
// bundle is a genuine superposition, not a handful of cleanly separable
// vectors.
func citizensOf() []struct{ Person, City string } {
	cities := []string{"Rome", "Lima", "Oslo", "Cairo", "Hanoi", "Quito", "Tunis", "Seoul", "Minsk", "Accra"}
	pairs := make([]struct{ Person, City string }, 0, 55)
	for i := 0; i < 55; i++ {
		person := personName(i)
		city := cities[i%len(cities)]
		pairs = append(pairs, struct{ Person, City string }{Person: person, City: city})
	}
	return pairs
}

func personName(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return "Citizen" + string(letters[i%len(letters)]) + string(letters[(i/len(letters))%len(letters)])
}

// residencyTheory builds the livesIn fact base the HDC unbind scenario
// queries against.
func residencyTheory() *theory.Theory {
	t := theory.New("residency-records")
	for _, pair := range citizensOf() {
		t.Fact(theory.Statement("livesIn", pair.Person, pair.City))
	}
	return t
}
