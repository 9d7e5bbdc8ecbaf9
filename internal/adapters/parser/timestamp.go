package parser

import "time"

// timestampLayout - дата в порядке день-месяц-год и время, как в экспорте.
const timestampLayout = "02.01.2006 15:04:05"

// ParseTimestamp переводит пару "DD.MM.YYYY" / "HH:MM:SS" в момент времени
// в зоне loc (время экспорта - локальное, без смещения).
// Для некорректной даты возвращается нулевое время; ошибка не возвращается.
func ParseTimestamp(date, clock string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation(timestampLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}
	}
	return ts
}
