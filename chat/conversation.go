package chat

// ConversationID maps two participant IDs to the canonical thread key.
// The IDs are sorted before joining, so both orderings of the same pair
// yield the same key. IDs never contain the underscore separator (they
// are hex object IDs), so distinct pairs cannot collide.
func ConversationID(userID1, userID2 string) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return userID1 + "_" + userID2
}
