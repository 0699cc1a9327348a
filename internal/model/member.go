package model

// Member maps a user to a board. Position orders the boards of one user.
type Member struct {
	ID       int  `json:"id" yaml:"id"`
	BoardID  int  `json:"board" yaml:"board" validate:"required,gt=0"`
	UserID   int  `json:"user" yaml:"user" validate:"required,gt=0"`
	Starred  bool `json:"starred" yaml:"starred"`
	Position int  `json:"position" yaml:"position" validate:"gte=0"`
}

// User is a person who can act on boards.
type User struct {
	ID        int    `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username" validate:"required,max=150"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Ref returns the UserRef for u.
func (u User) Ref() UserRef {
	return UserRef(u.ID)
}
