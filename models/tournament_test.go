package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentStatusValid(t *testing.T) {
	for _, status := range []TournamentStatus{
		StatusDraft, StatusReady, StatusInProgress, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, TournamentStatus("paused").Valid())
	assert.False(t, TournamentStatus("").Valid())
}

func TestStatusActionTarget(t *testing.T) {
	cases := map[StatusAction]TournamentStatus{
		ActionDraft:   StatusDraft,
		ActionPublish: StatusReady,
		ActionStart:   StatusInProgress,
		ActionFinish:  StatusCompleted,
		ActionCancel:  StatusCancelled,
	}
	for action, want := range cases {
		target, ok := action.Target()
		assert.True(t, ok, string(action))
		assert.Equal(t, want, target)
	}

	_, ok := StatusAction("archive").Target()
	assert.False(t, ok)
}
