package service

import (
	"strconv"
	"strings"
	"time"

	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/ws"
	"go-boutique-pos/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

// Preference keys
const (
	KeyStoreName            = "store_name"
	KeyOwnerName            = "owner_name"
	KeyLogoURI              = "logo_uri"
	KeyPINEnabled           = "pin_enabled"
	KeyBiometricEnabled     = "biometric_enabled"
	KeyPINHash              = "pin_hash"
	KeySecurityQuestion     = "security_q"
	KeySecurityAnswerHash   = "security_a_hash"
	KeyDashboardPeriod      = "home_dashboard_period"
	KeyDashboardCustomStart = "home_dashboard_custom_start"
	KeyDashboardCustomEnd   = "home_dashboard_custom_end"
)

const (
	DefaultStoreName = "CloudStore"
	DefaultOwnerName = "Usuario"
	customDateLayout = "2006-01-02"
)

// Settings is the store configuration as exposed to clients. Hashes never
// leave the service, only whether they are set.
type Settings struct {
	StoreName         string          `json:"store_name"`
	OwnerName         string          `json:"owner_name"`
	LogoURI           *string         `json:"logo_uri"`
	PINEnabled        bool            `json:"pin_enabled"`
	BiometricEnabled  bool            `json:"biometric_enabled"`
	HasPIN            bool            `json:"has_pin"`
	SecurityQuestion  *string         `json:"security_question"`
	HasSecurityAnswer bool            `json:"has_security_answer"`
	Dashboard         PeriodSelection `json:"dashboard"`
}

type StoreInput struct {
	StoreName *string `json:"store_name"`
	OwnerName *string `json:"owner_name"`
	LogoURI   *string `json:"logo_uri"`
}

// Session is an unlocked access token
type Session struct {
	Token     string    `json:"token"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SettingsService interface {
	Get() (*Settings, error)
	UpdateStore(in StoreInput) (*Settings, error)
	SetPIN(pin string) error
	DisablePIN() error
	SetBiometric(enabled bool) error
	SetSecurityQuestion(question *string, answer string) error
	PINRequired() (bool, error)
	Unlock(pin string) (*Session, error)
	Recover(answer string) (*Session, error)
	DashboardSelection() (PeriodSelection, error)
	SaveDashboardSelection(sel PeriodSelection) error
}

type settingsService struct {
	prefRepo   repository.PreferenceRepository
	wsHub      *ws.Hub
	sessionTTL time.Duration
	loc        *time.Location
	hashCost   int
}

func NewSettingsService(repo repository.PreferenceRepository, hub *ws.Hub, sessionTTL time.Duration, loc *time.Location) SettingsService {
	if loc == nil {
		loc = time.Local
	}
	return &settingsService{
		prefRepo:   repo,
		wsHub:      hub,
		sessionTTL: sessionTTL,
		loc:        loc,
		hashCost:   bcrypt.DefaultCost,
	}
}

// IsFourDigitPIN reports whether pin is exactly four ASCII digits
func IsFourDigitPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeAnswer makes security answers comparable regardless of case and padding
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func (s *settingsService) Get() (*Settings, error) {
	prefs, err := s.prefRepo.All()
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		StoreName:         DefaultStoreName,
		OwnerName:         DefaultOwnerName,
		PINEnabled:        prefs[KeyPINEnabled] == "true",
		BiometricEnabled:  prefs[KeyBiometricEnabled] == "true",
		HasPIN:            prefs[KeyPINHash] != "",
		HasSecurityAnswer: prefs[KeySecurityAnswerHash] != "",
		Dashboard:         s.selectionFrom(prefs),
	}
	if v := prefs[KeyStoreName]; v != "" {
		settings.StoreName = v
	}
	if v := prefs[KeyOwnerName]; v != "" {
		settings.OwnerName = v
	}
	if v := prefs[KeyLogoURI]; v != "" {
		settings.LogoURI = &v
	}
	if v := prefs[KeySecurityQuestion]; v != "" {
		settings.SecurityQuestion = &v
	}
	return settings, nil
}

// UpdateStore changes only the fields present in the input. A blank value
// resets the field to its default.
func (s *settingsService) UpdateStore(in StoreInput) (*Settings, error) {
	set := map[string]string{}
	var clear []string
	for key, value := range map[string]*string{
		KeyStoreName: in.StoreName,
		KeyOwnerName: in.OwnerName,
		KeyLogoURI:   in.LogoURI,
	} {
		if value == nil {
			continue
		}
		if v := strings.TrimSpace(*value); v != "" {
			set[key] = v
		} else {
			clear = append(clear, key)
		}
	}

	if err := s.prefRepo.SetMany(set, clear...); err != nil {
		return nil, err
	}
	s.wsHub.Notify("settings", "updated", 0, "")
	return s.Get()
}

// SetPIN stores a new PIN hash and turns the PIN gate on
func (s *settingsService) SetPIN(pin string) error {
	if !IsFourDigitPIN(pin) {
		return ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.hashCost)
	if err != nil {
		return err
	}
	if err := s.prefRepo.SetMany(map[string]string{
		KeyPINHash:    string(hash),
		KeyPINEnabled: "true",
	}); err != nil {
		return err
	}
	s.wsHub.Notify("settings", "pin_set", 0, "")
	return nil
}

// DisablePIN turns the gate off, which also disables biometrics and drops the hash
func (s *settingsService) DisablePIN() error {
	if err := s.prefRepo.SetMany(map[string]string{
		KeyPINEnabled:       "false",
		KeyBiometricEnabled: "false",
	}, KeyPINHash); err != nil {
		return err
	}
	s.wsHub.Notify("settings", "pin_disabled", 0, "")
	return nil
}

func (s *settingsService) SetBiometric(enabled bool) error {
	if enabled {
		hash, _, err := s.prefRepo.Get(KeyPINHash)
		if err != nil {
			return err
		}
		if hash == "" {
			if err := s.prefRepo.Set(KeyBiometricEnabled, "false"); err != nil {
				return err
			}
			return ErrBiometricNeedsPIN
		}
	}
	if err := s.prefRepo.Set(KeyBiometricEnabled, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.wsHub.Notify("settings", "updated", 0, "")
	return nil
}

// SetSecurityQuestion stores the question with its normalized answer hash.
// A nil or blank question removes both.
func (s *settingsService) SetSecurityQuestion(question *string, answer string) error {
	if question == nil || strings.TrimSpace(*question) == "" {
		return s.prefRepo.SetMany(nil, KeySecurityQuestion, KeySecurityAnswerHash)
	}

	normalized := NormalizeAnswer(answer)
	if normalized == "" {
		return ErrBlankAnswer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(normalized), s.hashCost)
	if err != nil {
		return err
	}
	if err := s.prefRepo.SetMany(map[string]string{
		KeySecurityQuestion:   strings.TrimSpace(*question),
		KeySecurityAnswerHash: string(hash),
	}); err != nil {
		return err
	}
	s.wsHub.Notify("settings", "updated", 0, "")
	return nil
}

// PINRequired reports whether requests must carry an unlocked session
func (s *settingsService) PINRequired() (bool, error) {
	prefs, err := s.prefRepo.All()
	if err != nil {
		return false, err
	}
	return prefs[KeyPINEnabled] == "true" && prefs[KeyPINHash] != "", nil
}

func (s *settingsService) Unlock(pin string) (*Session, error) {
	if !IsFourDigitPIN(pin) {
		return nil, ErrInvalidPIN
	}
	hash, ok, err := s.prefRepo.Get(KeyPINHash)
	if err != nil {
		return nil, err
	}
	if !ok || hash == "" {
		return nil, ErrPINNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		return nil, ErrWrongPIN
	}
	return s.issue(jwt.ScopeSession)
}

// Recover verifies the security answer and grants a session that may set a new PIN
func (s *settingsService) Recover(answer string) (*Session, error) {
	prefs, err := s.prefRepo.All()
	if err != nil {
		return nil, err
	}
	hash := prefs[KeySecurityAnswerHash]
	if prefs[KeySecurityQuestion] == "" || hash == "" {
		return nil, ErrNoSecurityQuestion
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(NormalizeAnswer(answer))) != nil {
		return nil, ErrWrongAnswer
	}
	return s.issue(jwt.ScopeRecover)
}

func (s *settingsService) issue(scope string) (*Session, error) {
	token, expiresAt, err := jwt.GenerateToken(scope, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Scope: scope, ExpiresAt: expiresAt}, nil
}

func (s *settingsService) DashboardSelection() (PeriodSelection, error) {
	prefs, err := s.prefRepo.All()
	if err != nil {
		return PeriodSelection{}, err
	}
	return s.selectionFrom(prefs), nil
}

func (s *settingsService) SaveDashboardSelection(sel PeriodSelection) error {
	if _, ok := ParsePeriodType(string(sel.Period)); !ok {
		return ErrInvalidPeriod
	}

	set := map[string]string{KeyDashboardPeriod: string(sel.Period)}
	var clear []string
	if sel.CustomStart != nil && !sel.CustomStart.IsZero() {
		set[KeyDashboardCustomStart] = sel.CustomStart.In(s.loc).Format(customDateLayout)
	} else {
		clear = append(clear, KeyDashboardCustomStart)
	}
	if sel.CustomEnd != nil && !sel.CustomEnd.IsZero() {
		set[KeyDashboardCustomEnd] = sel.CustomEnd.In(s.loc).Format(customDateLayout)
	} else {
		clear = append(clear, KeyDashboardCustomEnd)
	}
	return s.prefRepo.SetMany(set, clear...)
}

func (s *settingsService) selectionFrom(prefs map[string]string) PeriodSelection {
	sel := PeriodSelection{Period: PeriodToday}
	if p, ok := ParsePeriodType(prefs[KeyDashboardPeriod]); ok {
		sel.Period = p
	}
	if t, err := time.ParseInLocation(customDateLayout, prefs[KeyDashboardCustomStart], s.loc); err == nil {
		sel.CustomStart = &t
	}
	if t, err := time.ParseInLocation(customDateLayout, prefs[KeyDashboardCustomEnd], s.loc); err == nil {
		sel.CustomEnd = &t
	}
	return sel
}
