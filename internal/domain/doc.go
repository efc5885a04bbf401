// Package domain models natal chart data for the astromap service.
//
// # Data Source
//
// Chart data originates from the Astrologer API on RapidAPI
// (POST /api/v4/birth-chart). The service sends the birth date, time,
// coordinates and IANA timezone; the upstream returns a loosely structured JSON
// document with planets, houses, aspects and the sun, moon and ascendant
// placements. [ParseUpstreamResponse] turns that payload into [ParsedChartData].
//
// # Conventions
//
// Sign names:
//
//	The service speaks the twelve Portuguese sign names
//	(Áries, Touro, Gêmeos, Câncer, Leão, Virgem, Libra, Escorpião,
//	Sagitário, Capricórnio, Aquário, Peixes). Upstream names in English
//	("Aries") or three-letter abbreviations ("Ari") are normalised into this
//	vocabulary. Unrecognised names fall back to a fixed sign.
//
// Degrees:
//
//	Ecliptic longitude in decimal degrees. Values outside [0, 360) are
//	tolerated in stored data and normalised for display by [NormalizeDegree].
//
// Houses:
//
//	Numbered 1 through 12. House numbers come from the position of each
//	house in the upstream list, not from the upstream payload.
//
// Input formats:
//
//	birthDate  YYYY-MM-DD   e.g. "1990-05-20"
//	birthTime  HH:MM        e.g. "14:30" (24-hour clock, local to timezone)
//	timezone   IANA name    e.g. "America/Sao_Paulo" (default)
//
// # Coordinates
//
// There is no geocoding. [LookupCity] resolves a small static table of
// Brazilian capitals; anything else keeps whatever coordinates the caller
// supplied, or none. When a record has no coordinates the upstream request
// uses São Paulo's (see [NewChartRequest]).
package domain
