package usecase

import "careerpilot/internal/domain"

// SeedJobs is the built-in job collection used when no jobs file exists.
func SeedJobs() []domain.JobRecord {
	return []domain.JobRecord{
		{
			ID:          1,
			Title:       "Senior AI/ML Engineer",
			Company:     "TechCorp",
			Location:    "San Francisco, CA",
			SalaryRange: "$150,000 - $200,000",
			Description: "Lead the development of cutting-edge AI/ML solutions for enterprise clients. Work with large-scale data processing and deep learning models.",
			Requirements: []string{
				"5+ years Python experience",
				"Deep learning frameworks (TensorFlow, PyTorch)",
				"Cloud platforms (AWS, GCP, Azure)",
				"Machine learning algorithms",
				"Team leadership experience",
			},
			Skills:          []string{"python", "tensorflow", "pytorch", "aws", "machine learning", "deep learning", "team leadership"},
			Industry:        "Technology",
			ExperienceLevel: "Senior",
			GrowthPotential: "High - AI/ML field expanding rapidly",
			IndustryTrend:   "Growing demand for AI specialists",
		},
		{
			ID:          2,
			Title:       "Data Scientist",
			Company:     "DataFlow Inc",
			Location:    "New York, NY",
			SalaryRange: "$120,000 - $160,000",
			Description: "Analyze complex datasets to drive business decisions. Build predictive models and statistical analyses.",
			Requirements: []string{
				"3+ years data science experience",
				"Python, R, SQL proficiency",
				"Statistical modeling",
				"Data visualization tools",
				"Business acumen",
			},
			Skills:          []string{"python", "r", "sql", "statistics", "data analysis", "machine learning", "business intelligence"},
			Industry:        "Technology",
			ExperienceLevel: "Mid",
			GrowthPotential: "High - Data-driven decisions crucial",
			IndustryTrend:   "Increasing demand for data insights",
		},
		{
			ID:          3,
			Title:       "Full Stack Developer",
			Company:     "WebSolutions",
			Location:    "Austin, TX",
			SalaryRange: "$90,000 - $130,000",
			Description: "Develop end-to-end web applications using modern frameworks and cloud technologies.",
			Requirements: []string{
				"3+ years full-stack development",
				"JavaScript, React, Node.js",
				"Database design (SQL, NoSQL)",
				"Cloud deployment experience",
				"Agile methodology",
			},
			Skills:          []string{"javascript", "react", "nodejs", "sql", "nosql", "cloud", "web development"},
			Industry:        "Technology",
			ExperienceLevel: "Mid",
			GrowthPotential: "Medium - Stable web development market",
			IndustryTrend:   "Consistent demand for web developers",
		},
		{
			ID:          4,
			Title:       "DevOps Engineer",
			Company:     "CloudScale",
			Location:    "Seattle, WA",
			SalaryRange: "$110,000 - $150,000",
			Description: "Design and maintain scalable cloud infrastructure. Implement CI/CD pipelines and monitoring systems.",
			Requirements: []string{
				"4+ years DevOps experience",
				"Docker, Kubernetes expertise",
				"Cloud platforms (AWS, Azure)",
				"Infrastructure as Code",
				"Monitoring and logging",
			},
			Skills:          []string{"docker", "kubernetes", "aws", "azure", "terraform", "ci/cd", "monitoring"},
			Industry:        "Technology",
			ExperienceLevel: "Senior",
			GrowthPotential: "High - Cloud adoption accelerating",
			IndustryTrend:   "Critical for digital transformation",
		},
		{
			ID:          5,
			Title:       "Product Manager",
			Company:     "InnovateCorp",
			Location:    "Boston, MA",
			SalaryRange: "$100,000 - $140,000",
			Description: "Lead product strategy and development. Work with cross-functional teams to deliver customer-focused solutions.",
			Requirements: []string{
				"3+ years product management",
				"Technical background preferred",
				"Analytics and data-driven decisions",
				"Cross-functional leadership",
				"Market research skills",
			},
			Skills:          []string{"product management", "analytics", "leadership", "market research", "strategy", "technical background"},
			Industry:        "Technology",
			ExperienceLevel: "Mid",
			GrowthPotential: "Medium - Steady product management demand",
			IndustryTrend:   "Focus on customer-centric products",
		},
		{
			ID:          6,
			Title:       "Cybersecurity Analyst",
			Company:     "SecureTech",
			Location:    "Denver, CO",
			SalaryRange: "$95,000 - $135,000",
			Description: "Protect organizational assets from cyber threats. Monitor security systems and respond to incidents.",
			Requirements: []string{
				"2+ years cybersecurity experience",
				"Security tools and frameworks",
				"Incident response procedures",
				"Risk assessment skills",
				"Certifications (CISSP, CISM preferred)",
			},
			Skills:          []string{"cybersecurity", "incident response", "risk assessment", "security tools", "compliance", "network security"},
			Industry:        "Technology",
			ExperienceLevel: "Mid",
			GrowthPotential: "Very High - Cybersecurity threats increasing",
			IndustryTrend:   "Critical for all organizations",
		},
	}
}
