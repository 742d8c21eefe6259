package domain

import "fmt"

// Keys of the homework API payload.
const (
	KeyHomeworks    = "homeworks"
	KeyHomeworkName = "homework_name"
	KeyStatus       = "status"
)

// Verdicts maps a review status to the sentence shown in the chat.
var Verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

// NothingNew is sent when the API reports no homework changes since the cursor.
const NothingNew = "Пока ничего нового."

const (
	statusChangedFmt = "Изменился статус проверки работы \"%v\". %s"
	failureFmt       = "Сбой в работе программы: %v"
)

// CheckResponse validates the decoded API body and returns its homeworks list unchanged.
func CheckResponse(resp any) ([]any, error) {
	body, ok := resp.(map[string]any)
	if !ok {
		return nil, NewError(KindShape, MsgNotMapping, nil)
	}
	homeworks, ok := body[KeyHomeworks].([]any)
	if !ok {
		return nil, NewError(KindShape, MsgNotList, nil)
	}
	return homeworks, nil
}

// ParseStatus turns a single homework record into a status-change message.
// A null homework_name counts as missing.
func ParseStatus(hw any) (string, error) {
	record, ok := hw.(map[string]any)
	if !ok {
		return "", NewError(KindShape, MsgNotMapping, nil)
	}
	name, ok := record[KeyHomeworkName]
	if !ok || name == nil {
		return "", NewError(KindMissingField, MsgMissingKey, fmt.Errorf("key %q", KeyHomeworkName))
	}
	status, _ := record[KeyStatus].(string)
	verdict, ok := Verdicts[status]
	if !ok {
		return "", NewError(KindUnknownStatus, MsgUnknownStatus, fmt.Errorf("status %v", record[KeyStatus]))
	}
	return fmt.Sprintf(statusChangedFmt, name, verdict), nil
}

// FailureMessage is the chat text reporting a failed iteration.
func FailureMessage(err error) string {
	return fmt.Sprintf(failureFmt, err)
}
