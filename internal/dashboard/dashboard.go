// Package dashboard serves the fixed aggregates behind the dashboard and
// analytics views.
package dashboard

import (
	"sort"

	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/utils"
)

type Stats struct {
	TotalScans     int     `json:"totalScans"`
	ThreatsBlocked int     `json:"threatsBlocked"`
	SuccessRate    float64 `json:"successRate"`
	ActiveUsers    int     `json:"activeUsers"`
}

type RecentThreat struct {
	URL       string  `json:"url"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
}

// HealthMetric is one progress bar in the system health card.
type HealthMetric struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Percent int    `json:"percent"`
}

// Overview is everything the dashboard view renders.
type Overview struct {
	Stats         Stats          `json:"stats"`
	RecentThreats []RecentThreat `json:"recentThreats"`
	SystemHealth  []HealthMetric `json:"systemHealth"`
}

type KPI struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Threats int    `json:"threats"`
	Scans   int    `json:"scans"`
}

type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MethodCount struct {
	Method     string `json:"method"`
	Detections int    `json:"detections"`
}

type ThreatDomain struct {
	Domain   string `json:"domain"`
	Count    int    `json:"count"`
	LastSeen string `json:"lastSeen"`
}

// Analytics is everything the analytics view renders.
type Analytics struct {
	KPIs             []KPI          `json:"kpis"`
	ThreatTrends     []TrendPoint   `json:"threatTrends"`
	RiskDistribution []Slice        `json:"riskDistribution"`
	DetectionMethods []MethodCount  `json:"detectionMethods"`
	TopThreats       []ThreatDomain `json:"topThreats"`

	// HistoryHosts ranks hosts of blocked records in the detection log.
	HistoryHosts []HostCount `json:"historyHosts,omitempty"`
}

// DashboardOverview returns the sample dashboard data.
func DashboardOverview() Overview {
	return Overview{
		Stats: Stats{
			TotalScans:     15420,
			ThreatsBlocked: 342,
			SuccessRate:    99.2,
			ActiveUsers:    1240,
		},
		RecentThreats: []RecentThreat{
			{URL: "phishing-bank-security.com", Score: 0.94, Timestamp: "2 minutes ago", Status: "blocked"},
			{URL: "secure-paypal-verification.net", Score: 0.89, Timestamp: "5 minutes ago", Status: "blocked"},
			{URL: "microsoft-security-alert.org", Score: 0.76, Timestamp: "12 minutes ago", Status: "blocked"},
		},
		SystemHealth: []HealthMetric{
			{Name: "AI Model Performance", Value: "98.5%", Percent: 98},
			{Name: "API Response Time", Value: "87ms", Percent: 92},
			{Name: "Database Sync", Value: "Live", Percent: 100},
		},
	}
}

// AnalyticsReport returns the sample analytics series. When records is
// non-empty the blocked hosts of the detection log are ranked too.
func AnalyticsReport(records []model.DetectionRecord) Analytics {
	a := Analytics{
		KPIs: []KPI{
			{Name: "Detection Rate", Value: "94.7%", Change: "+2.1% from last month"},
			{Name: "Avg Response Time", Value: "67ms", Change: "-12ms improvement"},
			{Name: "False Positives", Value: "0.3%", Change: "-0.1% from last month"},
			{Name: "Unique Threats", Value: "1,247", Change: "+89 this week"},
		},
		ThreatTrends: []TrendPoint{
			{Date: "Jan 10", Threats: 12, Scans: 145},
			{Date: "Jan 11", Threats: 8, Scans: 178},
			{Date: "Jan 12", Threats: 15, Scans: 203},
			{Date: "Jan 13", Threats: 23, Scans: 189},
			{Date: "Jan 14", Threats: 18, Scans: 167},
			{Date: "Jan 15", Threats: 29, Scans: 234},
			{Date: "Jan 16", Threats: 21, Scans: 198},
		},
		RiskDistribution: []Slice{
			{Name: "High Risk", Value: 342},
			{Name: "Medium Risk", Value: 123},
			{Name: "Low Risk", Value: 2145},
			{Name: "Safe", Value: 12890},
		},
		DetectionMethods: []MethodCount{
			{Method: "URL Analysis", Detections: 245},
			{Method: "Content Scanning", Detections: 189},
			{Method: "Domain Reputation", Detections: 156},
			{Method: "AI Pattern Match", Detections: 98},
			{Method: "Blacklist Match", Detections: 67},
		},
		TopThreats: []ThreatDomain{
			{Domain: "secure-bank-login.net", Count: 45, LastSeen: "2 hours ago"},
			{Domain: "paypal-verification.org", Count: 38, LastSeen: "4 hours ago"},
			{Domain: "microsoft-security.info", Count: 32, LastSeen: "1 hour ago"},
			{Domain: "amazon-renewal.net", Count: 28, LastSeen: "3 hours ago"},
			{Domain: "crypto-wallet-secure.com", Count: 24, LastSeen: "6 hours ago"},
		},
	}
	if len(records) > 0 {
		a.HistoryHosts = TopThreatHosts(records, 5)
	}
	return a
}

// HostCount is the number of blocked detections for one host.
type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// TopThreatHosts groups blocked records by normalized host and returns the
// n most frequent, ties broken by first appearance. Records whose URL has
// no parseable host are skipped. n <= 0 returns every host.
func TopThreatHosts(records []model.DetectionRecord, n int) []HostCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		if !r.Blocked {
			continue
		}
		host, err := utils.HostOf(r.URL)
		if err != nil {
			continue
		}
		if _, ok := counts[host]; !ok {
			order = append(order, host)
		}
		counts[host]++
	}

	out := make([]HostCount, 0, len(order))
	for _, h := range order {
		out = append(out, HostCount{Host: h, Count: counts[h]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
