package scenario

import (
	"fmt"
	"strings"

	"linguakit/language"
)

// Scenario is an immutable roleplay/topic descriptor. Instruction is the
// scenario-specific part of the system prompt handed to the tutor.
type Scenario struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Instruction string `json:"instruction"`
	AIRole      string `json:"ai_role,omitempty"` // only set on materialized custom scenarios
}

// CustomID is the catalog entry whose instruction is materialized from
// user-supplied topic/role fields at configuration time.
const CustomID = "custom"

const FreeChatID = "free_chat"

var Catalog = []Scenario{
	{
		ID:          FreeChatID,
		Title:       "Free Chat",
		Description: "Talk about anything you want.",
		Icon:        "💬",
		Instruction: "You are a friendly and patient language tutor. Engage in a natural conversation with the user. Correct their mistakes gently if they make major errors, but prioritize flow. Keep responses concise (under 50 words) to encourage back-and-forth.",
	},
	{
		ID:          "cafe",
		Title:       "Ordering Coffee",
		Description: "Practice ordering drinks and food at a cafe.",
		Icon:        "☕",
		Instruction: "Roleplay: You are a barista at a busy cafe. The user is a customer. Ask them what they want, ask for clarifications (size, milk type), and process their payment. Keep it realistic.",
	},
	{
		ID:          "airport",
		Title:       "At the Airport",
		Description: "Check-in, security, and boarding conversations.",
		Icon:        "✈️",
		Instruction: "Roleplay: You are an airport check-in agent. Ask the user for their passport, where they are flying, and if they have bags to check. Be polite but professional.",
	},
	{
		ID:          "doctor",
		Title:       "Doctor Visit",
		Description: "Describe symptoms and get medical advice.",
		Icon:        "🩺",
		Instruction: "Roleplay: You are a doctor. The user is a patient describing their symptoms. Ask follow-up questions to diagnose the issue. Use simple medical terms appropriate for a learner.",
	},
	{
		ID:          CustomID,
		Title:       "Custom Scenario",
		Description: "Create your own roleplay situation.",
		Icon:        "✨",
		Instruction: "", // materialized from CustomFields
	},
}

// ByID looks a catalog scenario up by id.
func ByID(id string) (Scenario, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// CustomFields carries the user-supplied pieces of a custom scenario.
// Topic is required; the roles fall back to defaults.
type CustomFields struct {
	Topic    string `json:"topic"`
	AIRole   string `json:"ai_role"`
	UserRole string `json:"user_role"`
}

// Materialize substitutes the custom fields into the custom scenario
// template. The result behaves like any catalog scenario for the rest of
// the session.
func Materialize(fields CustomFields, target language.Language) (Scenario, error) {
	topic := strings.TrimSpace(fields.Topic)
	if topic == "" {
		return Scenario{}, fmt.Errorf("custom scenario requires a topic")
	}

	aiRole := strings.TrimSpace(fields.AIRole)
	if aiRole == "" {
		aiRole = "AI Tutor"
	}
	userRole := strings.TrimSpace(fields.UserRole)
	if userRole == "" {
		userRole = "Student"
	}

	base, _ := ByID(CustomID)
	base.Title = topic
	base.Description = fmt.Sprintf("Roleplay: %s & %s", userRole, aiRole)
	base.Instruction = fmt.Sprintf(
		"Roleplay Context: You are %s. The user is %s. Situation: %s. Act the part convincingly and help the user learn %s.",
		aiRole, userRole, topic, target.Name,
	)
	base.AIRole = aiRole
	return base, nil
}

// Greeting composes the synthetic tutor turn that opens a session.
func (s Scenario) Greeting(target language.Language) string {
	var tail string
	switch s.ID {
	case FreeChatID:
		tail = "What would you like to talk about?"
	case CustomID:
		role := s.AIRole
		if role == "" {
			role = "AI"
		}
		tail = fmt.Sprintf("I am ready. I will play the role of %s. Let's discuss %q.", role, s.Title)
	default:
		tail = "Let's start!"
	}
	return fmt.Sprintf("Hello! I'm your %s tutor. %s", target.Name, tail)
}

// Instruction composes the full system instruction for the conversation
// collaborator: tutor framing, the active scenario, and the response
// guidelines.
func Instruction(s Scenario, target, native language.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert language tutor teaching %s to a native %s speaker.\n", target.Name, native.Name)
	fmt.Fprintf(&b, "Current Scenario: %s\n", s.Description)
	if s.Instruction != "" {
		b.WriteString(s.Instruction)
		b.WriteString("\n")
	}
	b.WriteString("\nGuidelines:\n")
	fmt.Fprintf(&b, "1. Always respond in %s.\n", target.Name)
	fmt.Fprintf(&b, "2. If the user makes a significant mistake that hinders understanding, politely correct it in %s, maybe providing a hint in %s in parentheses if complex.\n", target.Name, native.Name)
	b.WriteString("3. Keep the conversation engaging and relevant to the scenario.")
	return b.String()
}
