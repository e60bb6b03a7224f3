package usage

// BudgetReader reads the token counters of the current day or month in
// one consistent snapshot. remaining is -1 for an unlimited window.
type BudgetReader interface {
	Window(monthly bool) (limit, used, remaining int64)
}
