package types

const UnknownUserName = "(unknown user)"

// Profile is the subset of a user's public profile the chat needs.
type Profile struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageURL"`
	// Language is the user's preferred translation target; empty when unset.
	Language string `json:"-"`
}

func UnknownProfile(userID string) Profile {
	return Profile{ID: userID, Name: UnknownUserName}
}

// ProfileOf resolves a profile from a lookup result, falling back to the
// unknown placeholder.
func ProfileOf(profiles map[string]Profile, userID string) Profile {
	if p, ok := profiles[userID]; ok {
		return p
	}
	return UnknownProfile(userID)
}
