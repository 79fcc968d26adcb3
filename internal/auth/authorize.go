package auth

// RequireRole decides whether the resolved identity satisfies the required
// role. The comparison is exact; no role implies another. Denial is a
// distinct outcome from any authentication failure.
func RequireRole(user *User, required Role) error {
	if user == nil {
		return ErrDenied
	}
	if user.Role != required {
		return ErrDenied
	}
	return nil
}
