package fxlang

// BattleEvent names a point in the move/turn lifecycle that content can
// hook. Names match the callback's conventional meaning across the
// pack's battle-engine content, not any particular host's terminology.
type BattleEvent string

const (
	Start              BattleEvent = "Start"              // condition installed
	End                BattleEvent = "End"                // condition removed
	Duration           BattleEvent = "Duration"            // customize initial duration
	Residual           BattleEvent = "Residual"            // per-turn residual phase
	SwitchIn           BattleEvent = "SwitchIn"            // mon just entered the active slot
	SwitchOut          BattleEvent = "SwitchOut"           // mon about to leave the active slot
	BeforeMove         BattleEvent = "BeforeMove"          // move about to execute (user-level veto)
	ModifyMove         BattleEvent = "ModifyMove"          // mutate the in-flight move
	UseMove            BattleEvent = "UseMove"             // logging hook, move commit
	UseMoveMessage     BattleEvent = "UseMoveMessage"      // logging hook, move message
	BasePower          BattleEvent = "BasePower"           // modify base power
	ModifyAtk          BattleEvent = "ModifyAtk"           // modify computed attack stat
	ModifyDef          BattleEvent = "ModifyDef"           // modify computed defense stat
	ModifySpA          BattleEvent = "ModifySpA"           // modify computed special attack stat
	ModifySpD          BattleEvent = "ModifySpD"           // modify computed special defense stat
	ModifySpe          BattleEvent = "ModifySpe"           // modify computed speed stat
	ModifyDamage       BattleEvent = "ModifyDamage"        // modify damage right before it applies
	TryHit             BattleEvent = "TryHit"              // immunity / type-chart veto
	DamagingHit        BattleEvent = "DamagingHit"         // target just took damage
	AfterMoveSecondary BattleEvent = "AfterMoveSecondary"  // secondary effects finished
	SetStatus          BattleEvent = "SetStatus"           // veto/allow a status application
	AllySetStatus      BattleEvent = "AllySetStatus"       // veto/allow an ally's status application
	AfterSetStatus     BattleEvent = "AfterSetStatus"      // status applied
)

// ReturnKind is the contract an event's callbacks must honor.
type ReturnKind int

const (
	ReturnsVoid ReturnKind = iota
	ReturnsBoolean
	ReturnsNumber
)

// eventContracts documents the return kind and chain direction expected
// for each BattleEvent. A callback registered with a mismatched Fn field
// for its event's contract is a content error caught by Validate, the
// closest Go equivalent to the spec's compile-time flag check (there is
// no script to compile; content is Go closures built by the dex
// packages, so this check runs once when a bundle is assembled).
var eventContracts = map[BattleEvent]ReturnKind{
	Start:              ReturnsBoolean,
	End:                ReturnsVoid,
	Duration:           ReturnsNumber,
	Residual:           ReturnsVoid,
	SwitchIn:           ReturnsVoid,
	SwitchOut:          ReturnsVoid,
	BeforeMove:         ReturnsBoolean,
	ModifyMove:         ReturnsVoid,
	UseMove:            ReturnsVoid,
	UseMoveMessage:     ReturnsVoid,
	BasePower:          ReturnsNumber,
	ModifyAtk:          ReturnsNumber,
	ModifyDef:          ReturnsNumber,
	ModifySpA:          ReturnsNumber,
	ModifySpD:          ReturnsNumber,
	ModifySpe:          ReturnsNumber,
	ModifyDamage:       ReturnsNumber,
	TryHit:             ReturnsBoolean,
	DamagingHit:        ReturnsVoid,
	AfterMoveSecondary: ReturnsVoid,
	SetStatus:          ReturnsBoolean,
	AllySetStatus:      ReturnsBoolean,
	AfterSetStatus:     ReturnsVoid,
}

// ContractFor returns the expected ReturnKind for event, and whether the
// event is known at all.
func ContractFor(event BattleEvent) (ReturnKind, bool) {
	kind, ok := eventContracts[event]
	return kind, ok
}
