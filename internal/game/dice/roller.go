package dice

// Roll evaluates an Expression against src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
// expr.Min() <= result.Total() <= expr.Max().
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// Evaluator rolls whole expressions. *Roller implements it.
type Evaluator interface {
	Roll(expr Expression) RollResult
}

// Evaluate rolls expr with src, delegating to src's own Roll when src is an
// Evaluator so the roll is logged as one expression instead of per draw.
func Evaluate(expr Expression, src Source) RollResult {
	if ev, ok := src.(Evaluator); ok {
		return ev.Roll(expr)
	}
	return Roll(expr, src)
}
