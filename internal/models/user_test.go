package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxOTPAttempts = 3

func TestGenerateOTP(t *testing.T) {
	var user User

	code, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)

	assert.Len(t, code, 6)
	assert.GreaterOrEqual(t, code, "100000")
	assert.LessOrEqual(t, code, "999999")

	assert.NotEmpty(t, user.OTPHash)
	assert.NotEqual(t, code, user.OTPHash)
	require.NotNil(t, user.OTPExpires)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *user.OTPExpires, time.Minute)
	assert.Zero(t, user.OTPAttempts)
}

func TestVerifyOTPSuccess(t *testing.T) {
	var user User
	code, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)

	assert.True(t, user.VerifyOTP(code, maxOTPAttempts))
	assert.True(t, user.IsEmailVerified)

	// OTP state is cleared, so the same code can never verify twice.
	assert.Empty(t, user.OTPHash)
	assert.Nil(t, user.OTPExpires)
	assert.False(t, user.VerifyOTP(code, maxOTPAttempts))
}

func TestVerifyOTPWrongCodeCountsAttempt(t *testing.T) {
	var user User
	code, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.False(t, user.VerifyOTP(wrong, maxOTPAttempts))
	assert.Equal(t, 1, user.OTPAttempts)
	assert.False(t, user.IsEmailVerified)

	// Correct code still works while under the attempt cap.
	assert.True(t, user.VerifyOTP(code, maxOTPAttempts))
}

func TestVerifyOTPAttemptCap(t *testing.T) {
	var user User
	code, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < maxOTPAttempts; i++ {
		assert.False(t, user.VerifyOTP(wrong, maxOTPAttempts))
	}
	assert.Equal(t, maxOTPAttempts, user.OTPAttempts)

	// Even the correct code is rejected once the cap is reached.
	assert.False(t, user.VerifyOTP(code, maxOTPAttempts))
	assert.False(t, user.IsEmailVerified)
}

func TestVerifyOTPExpired(t *testing.T) {
	var user User
	code, err := user.GenerateOTP(-time.Second)
	require.NoError(t, err)

	assert.False(t, user.VerifyOTP(code, maxOTPAttempts))
	assert.False(t, user.IsEmailVerified)
}

func TestVerifyOTPNonePending(t *testing.T) {
	var user User
	assert.False(t, user.VerifyOTP("123456", maxOTPAttempts))
}

func TestRegenerateOTPResetsAttempts(t *testing.T) {
	var user User
	code, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < maxOTPAttempts; i++ {
		user.VerifyOTP(wrong, maxOTPAttempts)
	}

	fresh, err := user.GenerateOTP(10 * time.Minute)
	require.NoError(t, err)
	assert.Zero(t, user.OTPAttempts)

	// The old code is gone, the fresh one verifies.
	assert.False(t, user.VerifyOTP(code, maxOTPAttempts))
	assert.True(t, user.VerifyOTP(fresh, maxOTPAttempts))
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Asha", LastName: "Rao"}
	assert.Equal(t, "Asha Rao", u.FullName())

	u.LastName = ""
	assert.Equal(t, "Asha", u.FullName())
}

func TestProfileOmitsSecrets(t *testing.T) {
	u := User{
		Email:        "asha@example.com",
		FirstName:    "Asha",
		PasswordHash: "hash",
		OTPHash:      "otp-hash",
		Role:         RoleCustomer,
	}

	p := u.Profile()
	assert.Equal(t, "asha@example.com", p.Email)
	assert.Equal(t, RoleCustomer, p.Role)
	// The projection type has no credential fields at all; this guards the
	// contract that handlers only ever serialize the projection.
	assert.False(t, u.IsAdmin())
}
