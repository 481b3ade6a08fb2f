package league

// NFLSpecs is the built-in catalog: 32 NFL teams in roster order.
var NFLSpecs = []ConferenceSpec{
	{
		Name: "AFC",
		Divisions: []DivisionSpec{
			{Name: "North", Teams: []TeamSpec{
				{"BAL", "Baltimore Ravens"},
				{"CIN", "Cincinnati Bengals"},
				{"CLE", "Cleveland Browns"},
				{"PIT", "Pittsburgh Steelers"},
			}},
			{Name: "South", Teams: []TeamSpec{
				{"HOU", "Houston Texans"},
				{"IND", "Indianapolis Colts"},
				{"JAX", "Jacksonville Jaguars"},
				{"TEN", "Tennessee Titans"},
			}},
			{Name: "East", Teams: []TeamSpec{
				{"BUF", "Buffalo Bills"},
				{"MIA", "Miami Dolphins"},
				{"NE", "New England Patriots"},
				{"NYJ", "New York Jets"},
			}},
			{Name: "West", Teams: []TeamSpec{
				{"DEN", "Denver Broncos"},
				{"KC", "Kansas City Chiefs"},
				{"LV", "Las Vegas Raiders"},
				{"LAC", "Los Angeles Chargers"},
			}},
		},
	},
	{
		Name: "NFC",
		Divisions: []DivisionSpec{
			{Name: "North", Teams: []TeamSpec{
				{"CHI", "Chicago Bears"},
				{"DET", "Detroit Lions"},
				{"GB", "Green Bay Packers"},
				{"MIN", "Minnesota Vikings"},
			}},
			{Name: "South", Teams: []TeamSpec{
				{"ATL", "Atlanta Falcons"},
				{"CAR", "Carolina Panthers"},
				{"NO", "New Orleans Saints"},
				{"TB", "Tampa Bay Buccaneers"},
			}},
			{Name: "East", Teams: []TeamSpec{
				{"DAL", "Dallas Cowboys"},
				{"NYG", "New York Giants"},
				{"PHI", "Philadelphia Eagles"},
				{"WAS", "Washington Commanders"},
			}},
			{Name: "West", Teams: []TeamSpec{
				{"ARI", "Arizona Cardinals"},
				{"LAR", "Los Angeles Rams"},
				{"SF", "San Francisco 49ers"},
				{"SEA", "Seattle Seahawks"},
			}},
		},
	},
}

// Default returns the built-in NFL league.
func Default() *League {
	l, err := New(NFLSpecs)
	if err != nil {
		panic("league: built-in catalog is invalid: " + err.Error())
	}
	return l
}
