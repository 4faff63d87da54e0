package domain

import "testing"

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "first and last",
			user: User{FirstName: "Ada", LastName: "Lovelace", Username: "ada", Email: "ada@example.com"},
			want: "Ada Lovelace",
		},
		{
			name: "first only",
			user: User{FirstName: "Ada", Username: "ada", Email: "ada@example.com"},
			want: "Ada",
		},
		{
			name: "last only",
			user: User{LastName: "Lovelace", Username: "ada", Email: "ada@example.com"},
			want: "Lovelace",
		},
		{
			name: "falls back to username",
			user: User{Username: "ada", Email: "ada@example.com"},
			want: "ada",
		},
		{
			name: "falls back to email",
			user: User{Email: "ada@example.com"},
			want: "ada@example.com",
		},
		{
			name: "nothing set",
			user: User{},
			want: UnknownUserName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
