package handler

import (
	"errors"  // build sentinel errors for helper failures
	"strconv" // parse the string form of the user ID claim

	"github.com/labstack/echo/v4" // echo context carries the JWT claims
)

// getUserID extracts the authenticated user's ID from the Echo
// context.  JWTAuth stores the token subject under "user_id"; the
// claim may arrive as a string, float64 or integer depending on how
// the token was minted, so all three are accepted.  An error is
// returned when no usable claim is present.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case string:
		id, err := strconv.ParseUint(t, 10, 64)
		if err != nil || id == 0 {
			return 0, errors.New("invalid user id claim")
		}
		return id, nil
	case float64:
		if t <= 0 {
			return 0, errors.New("invalid user id claim")
		}
		return uint64(t), nil
	case uint64:
		if t == 0 {
			return 0, errors.New("invalid user id claim")
		}
		return t, nil
	case int64:
		if t <= 0 {
			return 0, errors.New("invalid user id claim")
		}
		return uint64(t), nil
	}
	return 0, errors.New("missing user id claim")
}
