package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=12"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required,oneof=patient doctor"`

	// Required when role is doctor.
	DoctorProfile *doctorProfileRequest `json:"doctor_profile"`
}

type doctorProfileRequest struct {
	Specialization  string   `json:"specialization" binding:"required"`
	Location        string   `json:"location"`
	Bio             string   `json:"bio"`
	Education       string   `json:"education"`
	ExperienceYrs   int      `json:"experience_years"`
	ConsultationFee float64  `json:"consultation_fee"`
	AvailableDays   []string `json:"available_days"`
	AvailableSlots  []string `json:"available_slots"`
	ProfileImage    string   `json:"profile_image"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=12"`
}

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	DoctorID  *uuid.UUID `json:"doctor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		DoctorID:  u.DoctorID,
		CreatedAt: u.CreatedAt,
	}
}

// Register handles POST /auth/register. Doctor signups must include a
// profile; the account works immediately but the doctor stays out of
// listings until an admin approves the profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &service.RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
	}

	if cmd.Role == domain.RoleDoctor {
		if req.DoctorProfile == nil {
			respondError(c, http.StatusBadRequest, "doctor registrations require a doctor_profile")
			return
		}
		cmd.DoctorProfile = &doctordomain.RegisterDoctorCommand{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Specialization:  req.DoctorProfile.Specialization,
			Location:        req.DoctorProfile.Location,
			Bio:             req.DoctorProfile.Bio,
			Education:       req.DoctorProfile.Education,
			ExperienceYrs:   req.DoctorProfile.ExperienceYrs,
			ConsultationFee: req.DoctorProfile.ConsultationFee,
			AvailableDays:   req.DoctorProfile.AvailableDays,
			AvailableSlots:  req.DoctorProfile.AvailableSlots,
			ProfileImage:    req.DoctorProfile.ProfileImage,
		}
	}

	user, err := h.authSvc.Register(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toUserResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

// ChangePassword handles POST /auth/change-password for the authenticated
// user.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "password changed"})
}
