package model

// Seed reference data for Katsina State. LGAs are fixed; teams and members are
// only used when the store holds no saved roster.

var SeedLGAs = []LGA{
	{ID: "KT", Name: "KATSINA LGA"},
	{ID: "BAT", Name: "BATAGARAWA LGA"},
	{ID: "MAL", Name: "MALUMFASHI LGA"},
	{ID: "DAU", Name: "DAURA LGA"},
	{ID: "KAN", Name: "KANKIA LGA"},
	{ID: "MAS", Name: "MASHI LGA"},
}

var SeedTeams = []Team{
	{ID: "KT-T1", Name: "KT Team Alpha", LGAID: "KT", LeaderID: "user-kt-1"},
	{ID: "KT-T2", Name: "KT Team Beta", LGAID: "KT", LeaderID: "user-kt-2"},
	{ID: "BAT-T1", Name: "BAT Team Zenith", LGAID: "BAT", LeaderID: "user-bat-1"},
	{ID: "MAL-T1", Name: "MAL Team One", LGAID: "MAL", LeaderID: "user-mal-1"},
}

var SeedMembers = []Member{
	{ID: "M1", Name: "Abubakar Sani", TeamID: "KT-T1"},
	{ID: "M2", Name: "Zainab Yusuf", TeamID: "KT-T1"},
	{ID: "M3", Name: "Ibrahim Musa", TeamID: "KT-T2"},
	{ID: "M4", Name: "Fatima Bala", TeamID: "KT-T2"},
	{ID: "M5", Name: "Umar Faruk", TeamID: "BAT-T1"},
	{ID: "M6", Name: "Aisha Bello", TeamID: "BAT-T1"},
}
