package model

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Active       int    `json:"active"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Active != 0
}
