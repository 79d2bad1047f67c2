package screens

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/milk-customer/internal/api"
	"github.com/magabrotheeeer/milk-customer/internal/lib/phone"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// ErrNoToken бэкенд подтвердил вход, но не прислал токен.
var ErrNoToken = errors.New("token not found in API response")

// Login экран входа.
type Login struct {
	deps     Deps
	validate *validator.Validate
	life     lifetime

	mu     sync.Mutex
	errs   FieldErrors
	submit bool
}

// NewLogin создаёт экран входа.
func NewLogin(deps Deps) *Login {
	return &Login{deps: deps, validate: newValidator()}
}

// Mount сбрасывает ошибки формы.
func (s *Login) Mount(ctx context.Context) {
	s.life.mount(ctx)
	s.mu.Lock()
	s.errs = nil
	s.mu.Unlock()
}

// Unmount завершает время жизни экрана.
func (s *Login) Unmount() { s.life.unmount() }

// Focus ничего не загружает.
func (s *Login) Focus(context.Context) error { return nil }

// Errors ошибки полей после последней попытки входа.
func (s *Login) Errors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Submitting true, пока запрос входа в полёте.
func (s *Login) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submit
}

// Submit проверяет форму, выполняет вход, сохраняет токен и профиль
// и сообщает навигации об успешном входе.
func (s *Login) Submit(ctx context.Context, phoneNumber, password string) error {
	const op = "screens.Login.Submit"
	log := s.deps.Log.With(sl.Op(op))

	form := loginForm{Phone: phone.Normalize(phoneNumber), Password: password}
	errs := check(s.validate, form)
	s.mu.Lock()
	s.errs = errs
	if errs == nil {
		s.submit = true
	}
	s.mu.Unlock()
	if errs != nil {
		return errs
	}
	defer func() {
		s.mu.Lock()
		s.submit = false
		s.mu.Unlock()
	}()

	reqCtx, cancel := s.life.bind(ctx)
	defer cancel()

	resp, err := s.deps.API.Login(reqCtx, api.LoginRequest{PhoneNumber: form.Phone, Password: form.Password})
	if err != nil {
		log.Error("login failed", sl.Err(err))
		s.deps.fail(err, "Error", "Something went wrong")
		return err
	}
	if !resp.OK() {
		err := rejected(resp.Message, "Invalid credentials")
		s.deps.Alerter.Alert("Login failed", err.Error())
		return err
	}
	if resp.Token == "" {
		s.deps.Alerter.Alert("Error", "Token not found in API response")
		return ErrNoToken
	}

	if err := s.deps.Store.StoreAuth(reqCtx, resp.Token, resp.User); err != nil {
		log.Error("failed to store credentials", sl.Err(err))
		s.deps.fail(err, "Error", "Something went wrong")
		return err
	}
	log.Info("logged in", slog.String("phone", form.Phone))
	s.deps.Router.LoggedIn(ctx)
	return nil
}

// SignupInput данные формы регистрации.
type SignupInput struct {
	Name     string
	Phone    string
	Password string
	Confirm  string
}

// Signup экран регистрации.
type Signup struct {
	deps     Deps
	validate *validator.Validate
	life     lifetime

	mu   sync.Mutex
	errs FieldErrors
}

// NewSignup создаёт экран регистрации.
func NewSignup(deps Deps) *Signup {
	return &Signup{deps: deps, validate: newValidator()}
}

// Mount сбрасывает ошибки формы.
func (s *Signup) Mount(ctx context.Context) {
	s.life.mount(ctx)
	s.mu.Lock()
	s.errs = nil
	s.mu.Unlock()
}

// Unmount завершает время жизни экрана.
func (s *Signup) Unmount() { s.life.unmount() }

// Focus ничего не загружает.
func (s *Signup) Focus(context.Context) error { return nil }

// Errors ошибки полей после последней попытки.
func (s *Signup) Errors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Submit регистрирует покупателя. При успехе показывает подтверждение
// и возвращает на экран входа.
func (s *Signup) Submit(ctx context.Context, in SignupInput) error {
	const op = "screens.Signup.Submit"
	log := s.deps.Log.With(sl.Op(op))

	form := signupForm{
		Name:     strings.TrimSpace(in.Name),
		Phone:    phone.Normalize(in.Phone),
		Password: in.Password,
		Confirm:  in.Confirm,
	}
	errs := check(s.validate, form)
	s.mu.Lock()
	s.errs = errs
	s.mu.Unlock()
	if errs != nil {
		return errs
	}

	reqCtx, cancel := s.life.bind(ctx)
	defer cancel()

	resp, err := s.deps.API.Signup(reqCtx, api.SignupRequest{
		PhoneNumber: form.Phone,
		Password:    form.Password,
		Username:    form.Name,
	})
	if err != nil {
		log.Error("signup failed", sl.Err(err))
		s.deps.fail(err, "Error", "Something went wrong")
		return err
	}
	if !resp.OK() {
		err := rejected(resp.Message, "Unable to register")
		s.deps.Alerter.Alert("Signup Failed", err.Error())
		return err
	}

	log.Info("account created", slog.String("phone", form.Phone))
	s.deps.Alerter.Alert("Success", "Account created successfully")
	s.deps.Router.Back(ctx)
	return nil
}
