package chat

import "testing"

func TestConversationIDSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"adm1", "emp1"},
		{"emp1", "adm1"},
		{"64f1a2b3c4d5e6f7a8b9c0d1", "64f1a2b3c4d5e6f7a8b9c0d2"},
		{"zzz", "aaa"},
	}

	for _, p := range pairs {
		got := ConversationID(p[0], p[1])
		reversed := ConversationID(p[1], p[0])
		if got != reversed {
			t.Errorf("ConversationID(%q, %q) = %q but reversed = %q", p[0], p[1], got, reversed)
		}
	}
}

func TestConversationIDCanonicalForm(t *testing.T) {
	if got := ConversationID("emp1", "adm1"); got != "adm1_emp1" {
		t.Fatalf("ConversationID(emp1, adm1) = %q, want %q", got, "adm1_emp1")
	}
}

func TestConversationIDDistinctPairs(t *testing.T) {
	ids := []string{"u1", "u2", "u3", "u4"}

	seen := make(map[string][2]string)
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			key := ConversationID(a, b)
			if prev, ok := seen[key]; ok {
				t.Errorf("pairs (%s,%s) and (%s,%s) collide on key %q", prev[0], prev[1], a, b, key)
			}
			seen[key] = [2]string{a, b}
		}
	}
}
