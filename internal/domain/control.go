package domain

import (
	"errors"
	"strings"
)

// Action — решение, закодированное в кнопке карточки.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// Decision возвращает терминальный статус, который применяет действие.
func (a Action) Decision() ApprovalStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusDenied
}

// controlPrefix помечает кнопки, принадлежащие мосту.
const controlPrefix = "inc"

var ErrForeignControl = errors.New("control id does not belong to the bridge")

// ControlID — типизированный токен {action, recordId}, проходящий через
// stateless round-trip платформы. Единственный канал доставки id записи
// обратно в обработчик, поэтому кодек общий для сборки и разбора.
type ControlID struct {
	Action   Action
	RecordID string
}

// String собирает проводную форму inc_<action>_<recordId>.
func (c ControlID) String() string {
	return controlPrefix + "_" + string(c.Action) + "_" + c.RecordID
}

// ParseControlID разбирает проводную форму. Id записи — всё после второго
// разделителя: подчеркивания внутри самого id сохраняются.
func ParseControlID(raw string) (ControlID, error) {
	parts := strings.SplitN(raw, "_", 3)
	if len(parts) != 3 || parts[0] != controlPrefix || parts[2] == "" {
		return ControlID{}, ErrForeignControl
	}

	action := Action(parts[1])
	if action != ActionApprove && action != ActionDeny {
		return ControlID{}, ErrForeignControl
	}

	return ControlID{Action: action, RecordID: parts[2]}, nil
}
