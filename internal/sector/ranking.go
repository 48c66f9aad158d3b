package sector

import (
	"database/sql"
	"sort"

	"nysecli/pkg/contracts/domain"
)

// CompanyRank is the median profitability of one company
type CompanyRank struct {
	Ticker    string
	Security  string
	Sector    string
	NetMargin float64
	ROE       sql.NullFloat64
}

// Rank orders listed companies by median net margin, highest first. Companies
// without a defined net margin are left out.
func Rank(periods []domain.CompanyPeriod) []CompanyRank {
	type acc struct {
		security, sector string
		margins, roes    []float64
	}
	byTicker := make(map[string]*acc)
	var order []string

	for i := range periods {
		p := &periods[i]
		if p.Security == nil {
			continue
		}
		a, ok := byTicker[p.Record.Ticker]
		if !ok {
			a = &acc{security: p.Security.Name, sector: p.Security.Sector}
			byTicker[p.Record.Ticker] = a
			order = append(order, p.Record.Ticker)
		}
		if p.Ratios.NetMargin.Valid {
			a.margins = append(a.margins, p.Ratios.NetMargin.Float64)
		}
		if p.Ratios.ROE.Valid {
			a.roes = append(a.roes, p.Ratios.ROE.Float64)
		}
	}

	var out []CompanyRank
	for _, ticker := range order {
		a := byTicker[ticker]
		if len(a.margins) == 0 {
			continue
		}
		r := CompanyRank{Ticker: ticker, Security: a.security, Sector: a.sector, NetMargin: Median(a.margins)}
		if len(a.roes) > 0 {
			r.ROE = defined(Median(a.roes))
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NetMargin > out[j].NetMargin })
	return out
}

// TopBottom returns the first and last n of a ranking
func TopBottom(ranked []CompanyRank, n int) (top, bottom []CompanyRank) {
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], ranked[len(ranked)-n:]
}
