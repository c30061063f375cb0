package game

// AutoPlay drives the game without a player. Whenever the tray is waiting
// for input it stages the k highest stored dice and scores them. It reports
// whether it acted.
func (g *Game) AutoPlay(k int) bool {
	if g.state != StateSelecting || g.busy {
		return false
	}

	stored := g.stored()
	if k > len(stored) {
		k = len(stored)
	}
	for _, d := range stored[:k] {
		g.Select(d)
	}
	return g.Score()
}
