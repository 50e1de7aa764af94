package scrape

import "time"

// csvButtonSelector marks the results table's CSV export affordance on both
// the damage-done and healing-done views.
const csvButtonSelector = ".buttons-csv"

// triggerExport waits for the current view's export control and clicks it.
// The click gets one automatic retry on a stale reference: the table
// re-renders once its data arrives and can invalidate a just-located node.
func (s *Scraper) triggerExport() error {
	return withRetry(s.cfg.RetryAttempts, func() error {
		if err := s.drv.WaitVisible(csvButtonSelector, s.cfg.ElementTimeout); err != nil {
			return err
		}
		return s.drv.Click(csvButtonSelector)
	})
}

// exportDamage moves from the summary view to the damage-done tab and
// triggers the CSV download.
func (s *Scraper) exportDamage() error {
	cur, err := s.drv.CurrentURL()
	if err != nil {
		return err
	}
	if err := s.drv.Navigate(DamageURL(cur)); err != nil {
		return err
	}
	return s.triggerExport()
}

// exportHealing moves from the damage-done tab to healing-done and triggers
// the CSV download. The content swap on this view races with the export
// control becoming visible, so a short settle delay runs first.
func (s *Scraper) exportHealing() error {
	cur, err := s.drv.CurrentURL()
	if err != nil {
		return err
	}
	if err := s.drv.Navigate(HealingURL(cur)); err != nil {
		return err
	}
	s.drv.Sleep(s.cfg.SettleDelay)
	return s.triggerExport()
}

// defaultSettleDelay is how long the healing view gets to settle before the
// export control wait starts.
const defaultSettleDelay = 500 * time.Millisecond
