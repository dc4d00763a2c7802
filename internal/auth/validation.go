package auth

import "regexp"

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nicknameRe = regexp.MustCompile(`^[a-zA-Zа-яА-Я0-9]+$`)
	passwordRe = regexp.MustCompile("^[a-zA-Z0-9!@#$%^&*()_+={}\\[\\]:;\"'<>,.?~`\\\\|-]+$")
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidNickname accepts latin or cyrillic letters and digits,
// 3 to 14 characters.
func IsValidNickname(nickname string) bool {
	n := len([]rune(nickname))
	return nicknameRe.MatchString(nickname) && n >= 3 && n <= 14
}

// IsValidPassword accepts latin letters, digits and punctuation,
// 7 to 15 characters.
func IsValidPassword(password string) bool {
	n := len(password)
	return passwordRe.MatchString(password) && n >= 7 && n <= 15
}
