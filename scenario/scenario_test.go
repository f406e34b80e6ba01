package scenario

import (
	"strings"
	"testing"

	"linguakit/language"
)

func TestCatalogLookup(t *testing.T) {
	s, ok := ByID("cafe")
	if !ok {
		t.Fatal("cafe scenario missing from catalog")
	}
	if s.Title != "Ordering Coffee" {
		t.Errorf("unexpected title %q", s.Title)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("lookup of unknown id should fail")
	}
}

func TestMaterializeCustom(t *testing.T) {
	target, _ := language.ByCode("es")

	s, err := Materialize(CustomFields{Topic: "Negotiating a raise", AIRole: "Manager", UserRole: "Employee"}, target)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if s.Title != "Negotiating a raise" {
		t.Errorf("title should be the topic, got %q", s.Title)
	}
	if s.Description != "Roleplay: Employee & Manager" {
		t.Errorf("unexpected description %q", s.Description)
	}
	if !strings.Contains(s.Instruction, "You are Manager") || !strings.Contains(s.Instruction, "Spanish") {
		t.Errorf("instruction not materialized: %q", s.Instruction)
	}
}

func TestMaterializeDefaultsRoles(t *testing.T) {
	target, _ := language.ByCode("fr")
	s, err := Materialize(CustomFields{Topic: "Returning a broken item"}, target)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !strings.Contains(s.Instruction, "AI Tutor") || !strings.Contains(s.Instruction, "Student") {
		t.Errorf("role defaults not applied: %q", s.Instruction)
	}
}

func TestMaterializeRequiresTopic(t *testing.T) {
	target, _ := language.ByCode("es")
	if _, err := Materialize(CustomFields{Topic: "   "}, target); err == nil {
		t.Error("expected error for blank topic")
	}
}

func TestGreeting(t *testing.T) {
	target, _ := language.ByCode("es")

	free, _ := ByID(FreeChatID)
	if got := free.Greeting(target); !strings.Contains(got, "Spanish") || !strings.Contains(got, "What would you like to talk about?") {
		t.Errorf("unexpected free chat greeting %q", got)
	}

	cafe, _ := ByID("cafe")
	if got := cafe.Greeting(target); !strings.Contains(got, "Let's start!") {
		t.Errorf("unexpected scenario greeting %q", got)
	}

	custom, err := Materialize(CustomFields{Topic: "Ordering tapas", AIRole: "Waiter"}, target)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	got := custom.Greeting(target)
	if !strings.Contains(got, "Waiter") || !strings.Contains(got, "Ordering tapas") {
		t.Errorf("custom greeting should name the role and topic, got %q", got)
	}
}

func TestInstruction(t *testing.T) {
	target, _ := language.ByCode("es")
	native, _ := language.ByCode("en")
	cafe, _ := ByID("cafe")

	got := Instruction(cafe, target, native)
	for _, want := range []string{
		"teaching Spanish to a native English speaker",
		cafe.Description,
		cafe.Instruction,
		"Always respond in Spanish",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}
