package service

import (
	"testing"
	"time"

	"go-boutique-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_Defaults(t *testing.T) {
	env := newTestEnv(t)

	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, DefaultStoreName, settings.StoreName)
	assert.Equal(t, DefaultOwnerName, settings.OwnerName)
	assert.Nil(t, settings.LogoURI)
	assert.False(t, settings.PINEnabled)
	assert.False(t, settings.HasPIN)
	assert.Equal(t, PeriodToday, settings.Dashboard.Period)

	required, err := env.settings.PINRequired()
	require.NoError(t, err)
	assert.False(t, required)
}

func TestSettingsService_UpdateStore(t *testing.T) {
	env := newTestEnv(t)

	settings, err := env.settings.UpdateStore(StoreInput{StoreName: ptr(" Boutique Luna "), LogoURI: ptr("file://logo.png")})
	require.NoError(t, err)
	assert.Equal(t, "Boutique Luna", settings.StoreName)
	assert.Equal(t, DefaultOwnerName, settings.OwnerName)
	require.NotNil(t, settings.LogoURI)

	// nil leaves a field alone, blank resets it
	settings, err = env.settings.UpdateStore(StoreInput{OwnerName: ptr("Camila"), LogoURI: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Boutique Luna", settings.StoreName)
	assert.Equal(t, "Camila", settings.OwnerName)
	assert.Nil(t, settings.LogoURI)

	settings, err = env.settings.UpdateStore(StoreInput{StoreName: ptr("   ")})
	require.NoError(t, err)
	assert.Equal(t, DefaultStoreName, settings.StoreName)
}

func TestSettingsService_PINLifecycle(t *testing.T) {
	jwt.SetSecretKey("settings-test")
	defer jwt.SetSecretKey("")
	env := newTestEnv(t)

	for _, bad := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		assert.ErrorIs(t, env.settings.SetPIN(bad), ErrInvalidPIN, bad)
	}

	_, err := env.settings.Unlock("1234")
	assert.ErrorIs(t, err, ErrPINNotSet)

	require.NoError(t, env.settings.SetPIN("1234"))
	required, err := env.settings.PINRequired()
	require.NoError(t, err)
	assert.True(t, required)

	_, err = env.settings.Unlock("0000")
	assert.ErrorIs(t, err, ErrWrongPIN)
	_, err = env.settings.Unlock("12")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	session, err := env.settings.Unlock("1234")
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeSession, session.Scope)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	claims, err := jwt.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeSession, claims.Scope)

	require.NoError(t, env.settings.SetBiometric(true))
	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.True(t, settings.BiometricEnabled)
	assert.True(t, settings.HasPIN)

	require.NoError(t, env.settings.DisablePIN())
	settings, err = env.settings.Get()
	require.NoError(t, err)
	assert.False(t, settings.PINEnabled)
	assert.False(t, settings.BiometricEnabled)
	assert.False(t, settings.HasPIN)

	required, err = env.settings.PINRequired()
	require.NoError(t, err)
	assert.False(t, required)
}

func TestSettingsService_BiometricNeedsPIN(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.settings.SetBiometric(true), ErrBiometricNeedsPIN)
	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.False(t, settings.BiometricEnabled)

	require.NoError(t, env.settings.SetBiometric(false))
}

func TestSettingsService_SecurityQuestionRecovery(t *testing.T) {
	jwt.SetSecretKey("settings-test")
	defer jwt.SetSecretKey("")
	env := newTestEnv(t)

	_, err := env.settings.Recover("azul")
	assert.ErrorIs(t, err, ErrNoSecurityQuestion)

	assert.ErrorIs(t, env.settings.SetSecurityQuestion(ptr("¿Color favorito?"), "   "), ErrBlankAnswer)
	require.NoError(t, env.settings.SetSecurityQuestion(ptr(" ¿Color favorito? "), "  Azul "))

	settings, err := env.settings.Get()
	require.NoError(t, err)
	require.NotNil(t, settings.SecurityQuestion)
	assert.Equal(t, "¿Color favorito?", *settings.SecurityQuestion)
	assert.True(t, settings.HasSecurityAnswer)

	_, err = env.settings.Recover("verde")
	assert.ErrorIs(t, err, ErrWrongAnswer)

	session, err := env.settings.Recover("AZUL")
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeRecover, session.Scope)

	require.NoError(t, env.settings.SetSecurityQuestion(nil, ""))
	settings, err = env.settings.Get()
	require.NoError(t, err)
	assert.Nil(t, settings.SecurityQuestion)
	assert.False(t, settings.HasSecurityAnswer)
}

func TestSettingsService_DashboardSelection(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.settings.SaveDashboardSelection(PeriodSelection{Period: "YEARLY"}), ErrInvalidPeriod)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, testLoc)
	end := time.Date(2024, 2, 10, 0, 0, 0, 0, testLoc)
	require.NoError(t, env.settings.SaveDashboardSelection(PeriodSelection{Period: PeriodCustom, CustomStart: &start, CustomEnd: &end}))

	sel, err := env.settings.DashboardSelection()
	require.NoError(t, err)
	assert.Equal(t, PeriodCustom, sel.Period)
	require.NotNil(t, sel.CustomStart)
	require.NotNil(t, sel.CustomEnd)
	assert.True(t, start.Equal(*sel.CustomStart))
	assert.True(t, end.Equal(*sel.CustomEnd))

	require.NoError(t, env.settings.SaveDashboardSelection(PeriodSelection{Period: PeriodLast7Days}))
	sel, err = env.settings.DashboardSelection()
	require.NoError(t, err)
	assert.Equal(t, PeriodLast7Days, sel.Period)
	assert.Nil(t, sel.CustomStart)
	assert.Nil(t, sel.CustomEnd)
}

func TestIsFourDigitPIN(t *testing.T) {
	assert.True(t, IsFourDigitPIN("0000"))
	assert.True(t, IsFourDigitPIN("9876"))
	assert.False(t, IsFourDigitPIN("987"))
	assert.False(t, IsFourDigitPIN(" 987"))
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "azul", NormalizeAnswer("  AzUl "))
	assert.Equal(t, "", NormalizeAnswer("   "))
}
