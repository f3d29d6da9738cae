package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/estatedeli/internal/config"
	"github.com/example/estatedeli/internal/middleware"
	"github.com/example/estatedeli/internal/models"
	"github.com/example/estatedeli/internal/services"
	"github.com/example/estatedeli/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	email *services.EmailService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, email *services.EmailService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, email: email}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Register creates a new unverified user and mails a verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         models.RoleCustomer,
	}

	code, err := user.GenerateOTP(h.cfg.OTPExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	// The existence check above is not atomic with the insert; a concurrent
	// duplicate registration lands on the unique index instead.
	if err := h.db.Create(&user).Error; err != nil {
		return duplicateKeyAsConflict(err, "user already exists")
	}

	// Unlike the order mails, a lost verification code leaves the account
	// unusable, so a send failure is surfaced. The user record persists and
	// resend-otp still works.
	if err := h.email.SendOTP(user.Email, user.FirstName, code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send verification email")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":              "User created successfully. Please verify your email with the OTP sent.",
		"userId":               user.ID,
		"email":                user.Email,
		"requiresVerification": true,
	})
}

type verifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

// VerifyOTP validates a pending verification code and issues a token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.IsEmailVerified {
		return fiber.NewError(fiber.StatusConflict, "email already verified")
	}

	ok := user.VerifyOTP(req.OTP, h.cfg.OTPAttempts)
	// Persist either way: a mismatch consumed an attempt.
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"token":   token,
		"user":    user.Profile(),
	})
}

type resendOTPRequest struct {
	UserID string `json:"userId"`
}

// ResendOTP regenerates the verification code and mails it again.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.IsEmailVerified {
		return fiber.NewError(fiber.StatusConflict, "email already verified")
	}

	code, err := user.GenerateOTP(h.cfg.OTPExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if err := h.email.SendOTP(user.Email, user.FirstName, code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send verification email")
	}

	return c.JSON(fiber.Map{"message": "OTP resent successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user. Unknown email and wrong password
// produce the same response so accounts cannot be enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if !user.IsEmailVerified {
		code, err := user.GenerateOTP(h.cfg.OTPExpires)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
		}
		if err := h.db.Save(&user).Error; err != nil {
			return err
		}

		// Best-effort: the response tells the user to verify regardless.
		_ = h.email.SendOTP(user.Email, user.FirstName, code)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":              "Please verify your email first. OTP has been sent.",
			"requiresVerification": true,
			"userId":               user.ID,
		})
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user.Profile(),
	})
}

// GetProfile returns the authenticated user's public projection.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{"user": user.Profile()})
}

type updateProfileRequest struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Phone     *string         `json:"phone"`
	Address   *models.Address `json:"address"`
}

// UpdateProfile persists the whitelisted mutable profile fields.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.db.Save(user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.Profile(),
	})
}
