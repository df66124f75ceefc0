package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt"
)

// ExtractUserNameFromToken parses a JWT to extract name and email claims.
// The token is not verified; identity here is for request attribution only.
// Parse failures and missing fields fall back to "unknown".
func ExtractUserNameFromToken(tokenString string) string {
	var name, email string

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "unknown"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "unknown"
	}

	if n, ok := claims["name"].(string); ok && n != "" {
		name = n
	}
	if e, ok := claims["email"].(string); ok && e != "" {
		email = e
	}

	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s<%s>", name, email)
	case name != "":
		return name
	case email != "":
		return email
	default:
		return "unknown"
	}
}
