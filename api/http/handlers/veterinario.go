package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/apvclinic/apv/api/http/presenter"
	"github.com/apvclinic/apv/pkg/account"
	"github.com/apvclinic/apv/pkg/security/jwt"
)

type VeterinarioHandler struct {
	useCase account.UseCase
}

func NewVeterinarioHandler(useCase account.UseCase) *VeterinarioHandler {
	return &VeterinarioHandler{useCase: useCase}
}

type accountResponse struct {
	ID         string `json:"_id"`
	Nombre     string `json:"nombre"`
	Email      string `json:"email"`
	Web        string `json:"web,omitempty"`
	Telefono   string `json:"telefono,omitempty"`
	Confirmado bool   `json:"confirmado"`
}

func toAccountResponse(acc account.Account) accountResponse {
	return accountResponse{
		ID:         acc.ID.String(),
		Nombre:     acc.Name,
		Email:      acc.Email,
		Web:        acc.Web,
		Telefono:   acc.Phone,
		Confirmado: acc.Confirmed,
	}
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Web      string `json:"web"`
	Telefono string `json:"telefono"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// Register handles veterinarian registration and sends the
// confirmation email.
// @Summary Register veterinarian
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} accountResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /veterinarios [post]
func (h *VeterinarioHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	acc, err := h.useCase.Register(c.Context(), account.RegisterInput{
		Name:     req.Nombre,
		Email:    req.Email,
		Password: req.Password,
		Web:      req.Web,
		Phone:    req.Telefono,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			return presenter.Error(c, http.StatusConflict, "Usuario ya registrado")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "No se pudo registrar el usuario")
		}
	}

	return presenter.JSON(c, http.StatusCreated, toAccountResponse(acc))
}

// Confirm redeems a registration token.
// @Summary Confirm registration
// @Tags    veterinarios
// @Produce json
// @Param   token path string true "confirmation token"
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /veterinarios/confirmar/{token} [get]
func (h *VeterinarioHandler) Confirm(c *fiber.Ctx) error {
	token := c.Params("token")

	if err := h.useCase.Confirm(c.Context(), token); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "Token no valido")
		}
		return presenter.Error(c, http.StatusInternalServerError, "No se pudo confirmar la cuenta")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"msg": "Usuario confirmado correctamente"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login authenticates a confirmed veterinarian and issues a session token.
// @Summary Login
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /veterinarios/login [post]
func (h *VeterinarioHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.useCase.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, "El usuario no existe")
		case errors.Is(err, account.ErrNotConfirmed):
			return presenter.Error(c, http.StatusForbidden, "Tu cuenta no ha sido confirmada")
		case errors.Is(err, account.ErrInvalidCredentials):
			return presenter.Error(c, http.StatusForbidden, "Contraseña incorrecta")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "No se pudo iniciar sesión")
		}
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"_id":    result.Account.ID.String(),
		"nombre": result.Account.Name,
		"email":  result.Account.Email,
		"token":  result.Token,
	})
}

// Profile returns the account the auth middleware resolved.
// @Summary Get own profile
// @Tags    veterinarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} accountResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /veterinarios/perfil [get]
func (h *VeterinarioHandler) Profile(c *fiber.Ctx) error {
	acc, ok := jwt.AccountFromCtx(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "No autenticado")
	}
	return presenter.JSON(c, http.StatusOK, toAccountResponse(acc))
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r forgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ForgotPassword starts the password recovery flow. The response is the
// same whether or not the email is registered, so callers cannot
// enumerate accounts.
// @Summary Request password reset
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Param   input body forgotPasswordRequest true "account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /veterinarios/olvide-password [post]
func (h *VeterinarioHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	err := h.useCase.RequestPasswordReset(c.Context(), req.Email)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return presenter.Error(c, http.StatusInternalServerError, "No se pudo procesar la solicitud")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"msg": "Hemos enviado un email con las instrucciones"})
}

// CheckResetToken verifies a reset token without consuming it.
// @Summary Validate reset token
// @Tags    veterinarios
// @Produce json
// @Param   token path string true "reset token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /veterinarios/olvide-password/{token} [get]
func (h *VeterinarioHandler) CheckResetToken(c *fiber.Ctx) error {
	token := c.Params("token")

	if err := h.useCase.ValidateResetToken(c.Context(), token); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Token no valido")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"msg": "Token valido y el usuario existe"})
}

type newPasswordRequest struct {
	Password string `json:"password"`
}

func (r newPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// ResetPassword consumes a reset token and stores the new password.
// @Summary Complete password reset
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Param   token path string true "reset token"
// @Param   input body newPasswordRequest true "new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /veterinarios/olvide-password/{token} [post]
func (h *VeterinarioHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")

	var req newPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	if err := h.useCase.CompletePasswordReset(c.Context(), token, req.Password); err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			return presenter.Error(c, http.StatusBadRequest, "Token no valido")
		}
		return presenter.Error(c, http.StatusInternalServerError, "No se pudo modificar la contraseña")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"msg": "Contraseña modificada correctamente"})
}

type updateProfileRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Web      string `json:"web"`
	Telefono string `json:"telefono"`
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nombre, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// UpdateProfile overwrites the mutable profile fields.
// @Summary Update profile
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   id    path string true "account id"
// @Param   input body updateProfileRequest true "profile payload"
// @Success 200 {object} accountResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /veterinarios/{id} [put]
func (h *VeterinarioHandler) UpdateProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Hubo un error")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	acc, err := h.useCase.UpdateProfile(c.Context(), id, account.ProfileInput{
		Name:  req.Nombre,
		Email: req.Email,
		Web:   req.Web,
		Phone: req.Telefono,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			return presenter.Error(c, http.StatusBadRequest, "Hubo un error")
		case errors.Is(err, account.ErrEmailTaken):
			return presenter.Error(c, http.StatusConflict, "Este email ya está registrado")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "No se pudo actualizar el perfil")
		}
	}

	return presenter.JSON(c, http.StatusOK, toAccountResponse(acc))
}

type changePasswordRequest struct {
	PwdActual string `json:"pwd_actual"`
	PwdNuevo  string `json:"pwd_nuevo"`
}

func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PwdActual, validation.Required),
		validation.Field(&r.PwdNuevo, validation.Required, validation.Length(6, 100)),
	)
}

// ChangePassword replaces the password of the authenticated account.
// @Summary Change password
// @Tags    veterinarios
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body changePasswordRequest true "current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /veterinarios/actualizar-password [put]
func (h *VeterinarioHandler) ChangePassword(c *fiber.Ctx) error {
	acc, ok := jwt.AccountFromCtx(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "No autenticado")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := req.Validate(); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	if err := h.useCase.ChangePassword(c.Context(), acc.ID, req.PwdActual, req.PwdNuevo); err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			return presenter.Error(c, http.StatusBadRequest, "Hubo un error")
		case errors.Is(err, account.ErrWrongPassword):
			return presenter.Error(c, http.StatusBadRequest, "La contraseña actual es incorrecta")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "No se pudo actualizar la contraseña")
		}
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"msg": "Contraseña actualizada correctamente"})
}
