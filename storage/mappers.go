package storage

import "convive/domain"

// Helper conversion functions between storage rows and domain entities

func toDomainSession(r Session) domain.Session {
	return domain.Session{
		ID:          r.ID,
		Date:        r.Date,
		Facilitator: r.Facilitator,
		Group:       r.GroupName,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}

func fromDomainSession(s domain.Session) Session {
	return Session{
		ID:          s.ID,
		Date:        s.Date,
		Facilitator: s.Facilitator,
		GroupName:   s.Group,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
}

func toDomainEvaluation(r SessionEvaluation) domain.SessionEvaluation {
	return domain.SessionEvaluation{
		ID:                r.ID,
		SessionID:         r.SessionID,
		Phase:             domain.Phase(r.Phase),
		Grouping:          domain.Grouping(r.Grouping),
		Discomfort:        domain.Level(r.Discomfort),
		Tensions:          domain.Level(r.Tensions),
		Communication:     domain.Level(r.Communication),
		Participation:     domain.Participation(r.Participation),
		Respect:           domain.Level(r.Respect),
		Openness:          domain.Level(r.Openness),
		Laughter:          domain.Level(r.Laughter),
		MixedInteractions: r.MixedInteractions,
		MixedObserved:     r.MixedObserved,
		CreatedAt:         r.CreatedAt,
	}
}

func fromDomainEvaluation(e domain.SessionEvaluation) SessionEvaluation {
	return SessionEvaluation{
		ID:                e.ID,
		SessionID:         e.SessionID,
		Phase:             string(e.Phase),
		Grouping:          string(e.Grouping),
		Discomfort:        string(e.Discomfort),
		Tensions:          string(e.Tensions),
		Communication:     string(e.Communication),
		Participation:     string(e.Participation),
		Respect:           string(e.Respect),
		Openness:          string(e.Openness),
		Laughter:          string(e.Laughter),
		MixedInteractions: e.MixedInteractions,
		MixedObserved:     e.MixedObserved,
		CreatedAt:         e.CreatedAt,
	}
}

func toDomainProgramEvaluation(r ProgramEvaluation) domain.ProgramEvaluation {
	return domain.ProgramEvaluation{
		ID:                        r.ID,
		ProgramID:                 r.ProgramID,
		Phase:                     domain.Phase(r.Phase),
		GroupingAfter:             domain.Grouping(r.GroupingAfter),
		MixedInteractionsAfter:    r.MixedInteractionsAfter,
		ProductsCompleted:         r.ProductsCompleted,
		ParticipantRepresentation: r.ParticipantRepresentation,
		CreatedAt:                 r.CreatedAt,
	}
}

func fromDomainProgramEvaluation(e domain.ProgramEvaluation) ProgramEvaluation {
	return ProgramEvaluation{
		ID:                        e.ID,
		ProgramID:                 e.ProgramID,
		Phase:                     string(e.Phase),
		GroupingAfter:             string(e.GroupingAfter),
		MixedInteractionsAfter:    e.MixedInteractionsAfter,
		ProductsCompleted:         e.ProductsCompleted,
		ParticipantRepresentation: e.ParticipantRepresentation,
		CreatedAt:                 e.CreatedAt,
	}
}
