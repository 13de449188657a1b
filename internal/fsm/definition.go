package fsm

import "github.com/librescoot/librefsm"

// NewDefinition creates the menu FSM definition.
// The actions parameter provides the implementation for state entry,
// transition actions, guards and the attribute dispatch.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		// Navigation states
		State(StateMain).
		State(StateTopMenu).
		State(StateAttributeMenu).

		// Resolves the remembered attribute to its picker on entry. An
		// unknown attribute leaves the machine parked here.
		ConditionState(StateAttributePick, actions.PickAttribute).

		// Pickers draw their labels only when entered from the dispatch
		State(StatePowerPick,
			librefsm.WithOnEnter(actions.EnterPicker),
		).
		State(StateSpeedPick,
			librefsm.WithOnEnter(actions.EnterPicker),
		).
		State(StateSpinPick,
			librefsm.WithOnEnter(actions.EnterPicker),
		).

		// === Transitions ===

		// From Main - repainted on every step, menu opens the top level
		Transition(StateMain, evRefresh, StateMain,
			librefsm.WithAction(actions.RepaintSummary),
		).
		Transition(StateMain, EvMenuActivate, StateTopMenu,
			librefsm.WithAction(actions.OpenTopMenu),
		).

		// From TopMenu
		Transition(StateTopMenu, EvEscape, StateMain,
			librefsm.WithAction(actions.CloseTopMenu),
		).
		Transition(StateTopMenu, EvNext, StateTopMenu,
			librefsm.WithAction(actions.MoveCursor),
		).
		Transition(StateTopMenu, EvEnter, StateAttributeMenu,
			librefsm.WithGuard(actions.IsMotorPresent),
			librefsm.WithAction(actions.SelectMotor),
		).

		// From AttributeMenu
		Transition(StateAttributeMenu, EvEscape, StateTopMenu,
			librefsm.WithAction(actions.BackToTopMenu),
		).
		Transition(StateAttributeMenu, EvNext, StateAttributeMenu,
			librefsm.WithAction(actions.MoveCursor),
		).
		Transition(StateAttributeMenu, EvEnter, StateAttributePick,
			librefsm.WithAction(actions.SelectAttribute),
		).

		// From the pickers - Enter commits the cursor, Escape discards it
		Transition(StatePowerPick, EvEscape, StateAttributeMenu,
			librefsm.WithAction(actions.LeavePicker),
		).
		Transition(StatePowerPick, EvNext, StatePowerPick,
			librefsm.WithAction(actions.MoveCursor),
		).
		Transition(StatePowerPick, EvEnter, StateAttributeMenu,
			librefsm.WithAction(actions.CommitPick),
		).
		Transition(StateSpeedPick, EvEscape, StateAttributeMenu,
			librefsm.WithAction(actions.LeavePicker),
		).
		Transition(StateSpeedPick, EvNext, StateSpeedPick,
			librefsm.WithAction(actions.MoveCursor),
		).
		Transition(StateSpeedPick, EvEnter, StateAttributeMenu,
			librefsm.WithAction(actions.CommitPick),
		).
		Transition(StateSpinPick, EvEscape, StateAttributeMenu,
			librefsm.WithAction(actions.LeavePicker),
		).
		Transition(StateSpinPick, EvNext, StateSpinPick,
			librefsm.WithAction(actions.MoveCursor),
		).
		Transition(StateSpinPick, EvEnter, StateAttributeMenu,
			librefsm.WithAction(actions.CommitPick),
		).

		// Initial state
		Initial(StateMain)
}
