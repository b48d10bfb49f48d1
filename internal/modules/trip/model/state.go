package model

import (
	"encoding/json"
	"fmt"
	"time"

	"trip-planner/internal/pkg/xerrors"
)

// SuggestionStatus 建议请求状态
type SuggestionStatus string

const (
	StatusIdle      SuggestionStatus = "idle"
	StatusLoading   SuggestionStatus = "loading"
	StatusSucceeded SuggestionStatus = "succeeded"
	StatusFailed    SuggestionStatus = "failed"
)

// SuggestionState 建议面板的状态
// 只能通过 Idle / Loading / Succeeded / Failed 构造
type SuggestionState struct {
	status     SuggestionStatus
	requestID  string
	suggestion string
	errCode    xerrors.ErrorCode
	startedAt  time.Time
	finishedAt time.Time
}

// Idle 尚未发起请求
func Idle() SuggestionState {
	return SuggestionState{status: StatusIdle}
}

// Loading 请求已发出，等待结果
func Loading(requestID string, startedAt time.Time) SuggestionState {
	return SuggestionState{status: StatusLoading, requestID: requestID, startedAt: startedAt}
}

// Succeeded 收到建议文本
func Succeeded(requestID, suggestion string, finishedAt time.Time) SuggestionState {
	return SuggestionState{status: StatusSucceeded, requestID: requestID, suggestion: suggestion, finishedAt: finishedAt}
}

// Failed 请求失败，只保留错误码
func Failed(requestID string, code xerrors.ErrorCode, finishedAt time.Time) SuggestionState {
	return SuggestionState{status: StatusFailed, requestID: requestID, errCode: code, finishedAt: finishedAt}
}

func (s SuggestionState) Status() SuggestionStatus {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

func (s SuggestionState) RequestID() string { return s.requestID }

func (s SuggestionState) IsLoading() bool { return s.status == StatusLoading }

// IsSettled 已收到结果（成功或失败）
func (s SuggestionState) IsSettled() bool {
	return s.status == StatusSucceeded || s.status == StatusFailed
}

// Suggestion 建议文本，仅 succeeded 状态返回 true
func (s SuggestionState) Suggestion() (string, bool) {
	if s.status != StatusSucceeded {
		return "", false
	}
	return s.suggestion, true
}

// FailureCode 失败错误码，仅 failed 状态返回 true
func (s SuggestionState) FailureCode() (xerrors.ErrorCode, bool) {
	if s.status != StatusFailed {
		return 0, false
	}
	return s.errCode, true
}

func (s SuggestionState) StartedAt() time.Time { return s.startedAt }

func (s SuggestionState) FinishedAt() time.Time { return s.finishedAt }

// suggestionStateJSON 存储与 API 使用的序列化形式
type suggestionStateJSON struct {
	Status     SuggestionStatus `json:"status"`
	RequestID  string           `json:"request_id,omitempty"`
	Suggestion string           `json:"suggestion,omitempty"`
	ErrorCode  int              `json:"error_code,omitempty"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

func (s SuggestionState) MarshalJSON() ([]byte, error) {
	out := suggestionStateJSON{
		Status:     s.Status(),
		RequestID:  s.requestID,
		Suggestion: s.suggestion,
		ErrorCode:  int(s.errCode),
	}
	if !s.startedAt.IsZero() {
		out.StartedAt = &s.startedAt
	}
	if !s.finishedAt.IsZero() {
		out.FinishedAt = &s.finishedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON 经构造函数还原，拒绝不合法的组合
func (s *SuggestionState) UnmarshalJSON(data []byte) error {
	var in suggestionStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var started, finished time.Time
	if in.StartedAt != nil {
		started = *in.StartedAt
	}
	if in.FinishedAt != nil {
		finished = *in.FinishedAt
	}

	switch in.Status {
	case StatusIdle, "":
		*s = Idle()
	case StatusLoading:
		if in.RequestID == "" {
			return fmt.Errorf("loading state without request id")
		}
		*s = Loading(in.RequestID, started)
	case StatusSucceeded:
		if in.RequestID == "" {
			return fmt.Errorf("succeeded state without request id")
		}
		*s = Succeeded(in.RequestID, in.Suggestion, finished)
	case StatusFailed:
		if in.RequestID == "" {
			return fmt.Errorf("failed state without request id")
		}
		*s = Failed(in.RequestID, xerrors.ErrorCode(in.ErrorCode), finished)
	default:
		return fmt.Errorf("unknown suggestion status %q", in.Status)
	}
	return nil
}
