package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		Sessions: []Session{
			{ID: "s1", Date: "2024-01-15", Group: "G1"},
		},
		SessionEvaluations: []SessionEvaluation{
			{ID: "e1", SessionID: "s1", Phase: PhaseInitial},
		},
		ProgramEvaluations: []ProgramEvaluation{
			{ID: "p1", Phase: PhaseFinalImpact},
		},
	}
}

func TestDocumentValidate(t *testing.T) {
	require.NoError(t, validDocument().Validate())
}

func TestDocumentValidateRequiresAllArrays(t *testing.T) {
	doc := validDocument()
	doc.SessionEvaluations = nil
	assert.Error(t, doc.Validate())

	doc = validDocument()
	doc.ProgramEvaluations = nil
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsBadRecords(t *testing.T) {
	doc := validDocument()
	doc.Sessions[0].ID = ""
	assert.Error(t, doc.Validate(), "session without id")

	doc = validDocument()
	doc.Sessions = append(doc.Sessions, Session{ID: "s1"})
	assert.Error(t, doc.Validate(), "duplicate session id")

	doc = validDocument()
	doc.SessionEvaluations[0].SessionID = ""
	assert.Error(t, doc.Validate(), "evaluation without sessionId")

	doc = validDocument()
	doc.SessionEvaluations[0].Phase = PhaseFinalImpact
	assert.Error(t, doc.Validate(), "final_impact is not a session phase")

	doc = validDocument()
	doc.ProgramEvaluations[0].Phase = PhaseInitial
	assert.Error(t, doc.Validate(), "initial is not a program phase")
}

func TestParticipationMidpoint(t *testing.T) {
	assert.Equal(t, 100.0, ParticipationFull.Midpoint())
	assert.Equal(t, 90.0, ParticipationHigh.Midpoint())
	assert.Equal(t, 70.0, ParticipationMid.Midpoint())
	assert.Equal(t, 50.0, ParticipationLow.Midpoint())
	assert.Equal(t, 50.0, Participation("weird").Midpoint(), "unknown bands fall to the lowest bucket")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}
