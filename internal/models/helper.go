package models

// AllModels lists every persisted type in dependency order for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Exam{},
		&Question{},
		&Choice{},
		&StudentExam{},
		&Answer{},
		&Message{},
		&SWOTQuestion{},
		&SWOTAnalysis{},
		&SWOTAnswer{},
		&AuditLog{},
	}
}
