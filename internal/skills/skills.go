// Package skills derives a skill profile from resume text.
package skills

import "strings"

// Vocabulary lists the terms that show up both in resumes and in postings.
// Extract reports matches in this order.
var Vocabulary = []string{
	// programming and databases
	"python", "java", "kotlin", "c++", "sql", "postgresql", "mongodb",
	"pandas", "numpy", "scikit-learn", "scipy",
	// ml
	"machine learning", "deep learning", "pytorch", "tensorflow",
	"neural network", "cnn", "rnn", "lstm", "transformer",
	"nlp", "natural language processing", "large language model", "llm",
	"computer vision", "fair ml", "fairness", "predictive modeling",
	"feature engineering", "statistical modeling", "statistics",
	"regression", "classification", "clustering", "a/b testing",
	// cloud and infra
	"aws", "lambda", "dynamodb", "ec2", "s3", "docker",
	"distributed systems", "etl", "data pipeline", "cloud",
	// data and visualization
	"tableau", "matplotlib", "seaborn", "excel", "power bi",
	"arcgis", "geospatial", "exploratory data analysis",
	"business intelligence", "data visualization",
	// healthcare
	"healthcare", "clinical", "ehr", "electronic health record",
	"omop", "fhir", "hipaa", "informatics", "health informatics",
	"clinical data", "medical", "patient data", "all of us",
	// research
	"research", "data scientist", "data analyst", "data science",
	"informatics analyst", "research analyst",
	// wearables
	"wearable", "sensor", "iot", "fitbit", "mobile",
	"flutter", "git", "docker", "web scraping", "mongodb",
}

// Fallback is the profile used when neither an explicit list nor a readable
// resume is available.
var Fallback = []string{
	"python", "sql", "tableau", "data analyst", "data science", "data scientist",
	"machine learning", "deep learning", "research", "healthcare", "clinical",
	"ehr", "informatics", "aws", "pytorch", "pandas", "statistics",
}

// Extract returns the vocabulary terms found in text, case-insensitively,
// each at most once.
func Extract(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	seen := make(map[string]struct{})
	for _, term := range Vocabulary {
		if _, ok := seen[term]; ok {
			continue
		}
		if strings.Contains(lower, term) {
			seen[term] = struct{}{}
			found = append(found, term)
		}
	}
	return found
}
