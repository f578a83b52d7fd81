package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type memoryPrefs map[string]string

func (m memoryPrefs) String(key string) string    { return m[key] }
func (m memoryPrefs) SetString(key, value string) { m[key] = value }
func (m memoryPrefs) RemoveValue(key string)      { delete(m, key) }

func TestSessionLifecycle(t *testing.T) {
	prefs := memoryPrefs{}
	s := New(prefs)

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())

	s.Save("tok-1")
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "tok-1", prefs[TokenKey])

	s.Clear()
	assert.False(t, s.Authenticated())
	_, ok := prefs[TokenKey]
	assert.False(t, ok)
}

func TestSessionSurvivesRestart(t *testing.T) {
	prefs := memoryPrefs{}
	New(prefs).Save("tok-2")

	assert.Equal(t, "tok-2", New(prefs).Token())
}
