package reminder

import (
	"strconv"

	"subtracker/internal/stories/subs"
)

var currencySymbols = map[string]string{
	"CNY": "¥",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatPrice prefixes the amount with the currency symbol, or with the raw
// code when the currency is unknown.
func FormatPrice(sub *subs.Subscription) string {
	symbol, ok := currencySymbols[sub.Currency]
	if !ok {
		symbol = sub.Currency
	}
	return symbol + sub.Price.StringFixed(2)
}

type renderer struct {
	localizer Localizer
}

func (r renderer) displayName(lang string, sub *subs.Subscription) string {
	if sub.Name != "" {
		return sub.Name
	}
	return r.localizer.Get(lang, "reminder.unnamed", nil)
}

func (r renderer) cycle(lang string, c subs.Cycle) string {
	key := "cycle.unit." + string(c.Unit)
	unit := r.localizer.Get(lang, key, nil)
	if unit == key {
		unit = string(c.Unit)
	}
	if c.Value == 1 {
		return r.localizer.Get(lang, "cycle.single", map[string]interface{}{"unit": unit})
	}
	return r.localizer.Get(lang, "cycle.multiple", map[string]interface{}{
		"count": c.Value,
		"unit":  unit,
	})
}

func (r renderer) when(lang string, days int) string {
	switch days {
	case 0:
		return r.localizer.Get(lang, "reminder.when.today", nil)
	case 1:
		return r.localizer.Get(lang, "reminder.when.tomorrow", nil)
	default:
		return r.localizer.Get(lang, "reminder.when.days", map[string]interface{}{"days": strconv.Itoa(days)})
	}
}

// message renders the reminder body and the short summary used as a title by
// channels that support one.
func (r renderer) message(lang string, sub *subs.Subscription, days int) (body, summary string) {
	name := r.displayName(lang, sub)

	body = r.localizer.Get(lang, "reminder.body", map[string]interface{}{
		"name":     name,
		"price":    FormatPrice(sub),
		"cycle":    r.cycle(lang, sub.Cycle),
		"date":     sub.NextPaymentDate.Format(r.localizer.Get(lang, "reminder.date_layout", nil)),
		"when":     r.when(lang, days),
		"category": sub.Category,
	})
	summary = r.localizer.Get(lang, "reminder.summary", map[string]interface{}{"name": name})
	return body, summary
}
