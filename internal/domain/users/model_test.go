package users

import "testing"

func TestPasswordRoundtrip(t *testing.T) {
	u := &User{Username: "alice"}
	if err := u.SetPassword("s3cret-pass"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Fatal("password was not hashed")
	}
	if !u.CheckPassword("s3cret-pass") {
		t.Error("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestIsAdmin(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin not recognized")
	}
	if (&User{Role: RoleStaff}).IsAdmin() {
		t.Error("staff treated as admin")
	}
}
