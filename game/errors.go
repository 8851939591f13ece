package game

import (
	"errors"
	"fmt"
)

// Code is a machine-readable reason for a rejected action.
type Code string

const (
	CodeUnknownTerritory           Code = "UNKNOWN_TERRITORY"
	CodeUnknownPlayer              Code = "UNKNOWN_PLAYER"
	CodeNotCurrentPlayer           Code = "NOT_CURRENT_PLAYER"
	CodeWrongPhase                 Code = "WRONG_PHASE"
	CodeNotOwner                   Code = "NOT_OWNER"
	CodeInvalidCount               Code = "INVALID_COUNT"
	CodeInsufficientReinforcements Code = "INSUFFICIENT_REINFORCEMENTS"
	CodeIllegalTransition          Code = "ILLEGAL_TRANSITION"
	CodeNotSkippable               Code = "NOT_SKIPPABLE"
	CodeSameOwner                  Code = "SAME_OWNER"
	CodeNotAdjacent                Code = "NOT_ADJACENT"
	CodeInsufficientAttackArmies   Code = "INSUFFICIENT_ATTACK_ARMIES"
	CodeNoActiveCombat             Code = "NO_ACTIVE_COMBAT"
	CodeCombatNotEngaged           Code = "COMBAT_NOT_ENGAGED"
	CodeInvalidBattleResult        Code = "INVALID_BATTLE_RESULT"
	CodeNoConquestPending          Code = "NO_CONQUEST_PENDING"
	CodeConquestPending            Code = "CONQUEST_PENDING"
	CodeInvalidTransferCount       Code = "INVALID_TRANSFER_COUNT"
	CodeAlreadyUsed                Code = "ALREADY_USED"
	CodeGameOver                   Code = "GAME_OVER"
	CodeInvalidRoster              Code = "INVALID_ROSTER"
	CodeInvalidBoard               Code = "INVALID_BOARD"
	CodeInvalidSnapshot            Code = "INVALID_SNAPSHOT"
)

// Error is a rejected action. The world is never modified when one is returned.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code only, so errors.Is(err, ErrNotOwner) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUnknownTerritory           = &Error{Code: CodeUnknownTerritory}
	ErrUnknownPlayer              = &Error{Code: CodeUnknownPlayer}
	ErrNotCurrentPlayer           = &Error{Code: CodeNotCurrentPlayer}
	ErrWrongPhase                 = &Error{Code: CodeWrongPhase}
	ErrNotOwner                   = &Error{Code: CodeNotOwner}
	ErrInvalidCount               = &Error{Code: CodeInvalidCount}
	ErrInsufficientReinforcements = &Error{Code: CodeInsufficientReinforcements}
	ErrIllegalTransition          = &Error{Code: CodeIllegalTransition}
	ErrNotSkippable               = &Error{Code: CodeNotSkippable}
	ErrSameOwner                  = &Error{Code: CodeSameOwner}
	ErrNotAdjacent                = &Error{Code: CodeNotAdjacent}
	ErrInsufficientAttackArmies   = &Error{Code: CodeInsufficientAttackArmies}
	ErrNoActiveCombat             = &Error{Code: CodeNoActiveCombat}
	ErrCombatNotEngaged           = &Error{Code: CodeCombatNotEngaged}
	ErrInvalidBattleResult        = &Error{Code: CodeInvalidBattleResult}
	ErrNoConquestPending          = &Error{Code: CodeNoConquestPending}
	ErrConquestPending            = &Error{Code: CodeConquestPending}
	ErrInvalidTransferCount       = &Error{Code: CodeInvalidTransferCount}
	ErrAlreadyUsed                = &Error{Code: CodeAlreadyUsed}
	ErrGameOver                   = &Error{Code: CodeGameOver}
	ErrInvalidRoster              = &Error{Code: CodeInvalidRoster}
	ErrInvalidBoard               = &Error{Code: CodeInvalidBoard}
	ErrInvalidSnapshot            = &Error{Code: CodeInvalidSnapshot}
)

// CodeOf returns the rejection code of err, or "" when err is not a *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
