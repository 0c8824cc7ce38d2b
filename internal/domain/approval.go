package domain

import "errors"

// Статусы State Machine согласования.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusDenied   ApprovalStatus = "Denied"
)

var (
	ErrInvalidTransition = errors.New("invalid approval status transition")
	ErrAlreadyDecided    = errors.New("approval request already decided")
)

// Имена колонок записи в record store.
const (
	FieldDate        = "Date"
	FieldAgentName   = "Agent Name"
	FieldIncentive   = "Incentive"
	FieldSubmittedBy = "Submitted By"
	FieldStatus      = "Approval Status"
)

// Record — снимок записи record store. Мост локальных копий не держит:
// структура живет ровно один проход обработчика.
type Record struct {
	ID     string
	Fields map[string]any
}

// Status читает текущий статус согласования из полей записи.
func (r Record) Status() ApprovalStatus {
	s, _ := r.Fields[FieldStatus].(string)
	return ApprovalStatus(s)
}

// Display возвращает строковое значение поля для отображения ("" если пусто/не строка).
func (r Record) Display(field string) string {
	s, _ := r.Fields[field].(string)
	return s
}

// Terminal сообщает, достигнут ли конечный статус (дальнейшие переходы запрещены).
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// CanTransitionTo проверяет правила конечного автомата: Pending -> {Approved, Denied}.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) error {
	if s.Terminal() {
		return ErrAlreadyDecided
	}
	if next == StatusPending || !next.Terminal() {
		return ErrInvalidTransition
	}
	return nil
}
