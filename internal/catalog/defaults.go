package catalog

import "github.com/pdiddy/idea-engine/pkg/types"

// DefaultTemplates returns the built-in instruction templates. Each frames a
// distinct cognitive approach to the same problem.
func DefaultTemplates() *Templates {
	templates := []types.InstructionTemplate{
		{
			ID:   "ins_analytical",
			Name: "Analytical Framework",
			Text: "You are an expert analyst specializing in {domain}. Approach the following " +
				"question with careful analysis, systematic thinking, and evidence-based reasoning. " +
				"Consider multiple perspectives, identify potential challenges, and evaluate trade-offs. " +
				"Focus on creating a structured, logical response.",
			Metadata: map[string]string{
				"cognitive_style": "analytical",
				"strength":        "structured reasoning",
			},
		},
		{
			ID:   "ins_creative",
			Name: "Creative Framework",
			Text: "You are a highly creative thinker specializing in {domain}. Approach the following " +
				"question with imagination, novel associations, and out-of-the-box thinking. " +
				"Explore unconventional ideas, make surprising connections, and consider radical alternatives. " +
				"Focus on generating innovative concepts without being constrained by conventional thinking.",
			Metadata: map[string]string{
				"cognitive_style": "divergent",
				"strength":        "novel ideation",
			},
		},
		{
			ID:   "ins_critical",
			Name: "Critical Framework",
			Text: "You are a critical thinker specializing in {domain}. Approach the following " +
				"question by challenging assumptions, identifying potential flaws, and considering counterarguments. " +
				"Focus on rigorously evaluating ideas rather than accepting them at face value. " +
				"Identify hidden constraints, unstated assumptions, and potential negative consequences.",
			Metadata: map[string]string{
				"cognitive_style": "critical",
				"strength":        "assumption challenging",
			},
		},
		{
			ID:   "ins_integrative",
			Name: "Integrative Framework",
			Text: "You are an expert in integrative thinking specializing in {domain}. Approach the following " +
				"question by synthesizing diverse perspectives, reconciling apparent contradictions, and creating holistic solutions. " +
				"Focus on finding the connections between different disciplines and frameworks. " +
				"Consider how various stakeholders might contribute to a comprehensive solution.",
			Metadata: map[string]string{
				"cognitive_style": "integrative",
				"strength":        "synthesis",
			},
		},
		{
			ID:   "ins_pragmatic",
			Name: "Pragmatic Framework",
			Text: "You are a pragmatic problem-solver specializing in {domain}. Approach the following " +
				"question with a focus on practical implementation, resource constraints, and real-world feasibility. " +
				"Focus on creating solutions that can be readily applied and that address immediate needs. " +
				"Consider ease of adoption, cost-effectiveness, and scalability.",
			Metadata: map[string]string{
				"cognitive_style": "pragmatic",
				"strength":        "implementation focus",
			},
		},
		{
			ID:   "ins_first_principles",
			Name: "First Principles Framework",
			Text: "You are a first principles thinker specializing in {domain}. Approach the following " +
				"question by breaking it down to its fundamental truths and building up from there. " +
				"Avoid relying on analogies or conventional wisdom. Instead, focus on identifying " +
				"the core elements of the problem and recombining them in novel ways.",
			Metadata: map[string]string{
				"cognitive_style": "reductive",
				"strength":        "fundamental analysis",
			},
		},
		{
			ID:   "ins_systems",
			Name: "Systems Thinking Framework",
			Text: "You are a systems thinker specializing in {domain}. Approach the following " +
				"question by considering the whole ecosystem of interrelated components. " +
				"Focus on identifying feedback loops, emergent properties, and non-linear relationships. " +
				"Consider how interventions in one part of the system might affect other parts, " +
				"both immediately and over time.",
			Metadata: map[string]string{
				"cognitive_style": "systems",
				"strength":        "holistic analysis",
			},
		},
		{
			ID:   "ins_contrarian",
			Name: "Contrarian Framework",
			Text: "You are a contrarian thinker specializing in {domain}. Approach the following " +
				"question by deliberately taking positions opposite to conventional wisdom. " +
				"Seek to identify why the most popular or obvious solutions might be wrong. " +
				"Focus on finding value in overlooked or dismissed approaches.",
			Metadata: map[string]string{
				"cognitive_style": "contrarian",
				"strength":        "challenging orthodoxy",
			},
		},
		{
			ID:   "ins_historical",
			Name: "Historical Framework",
			Text: "You are a historical analyst specializing in {domain}. Approach the following " +
				"question by examining relevant historical precedents and patterns. " +
				"Consider how similar challenges have been addressed in the past, what succeeded, " +
				"what failed, and why. Extract lessons and principles that might apply to the current situation.",
			Metadata: map[string]string{
				"cognitive_style": "historical",
				"strength":        "pattern recognition",
			},
		},
		{
			ID:   "ins_futurist",
			Name: "Future-Oriented Framework",
			Text: "You are a futurist specializing in {domain}. Approach the following " +
				"question by considering long-term trends, emerging technologies, and potential " +
				"paradigm shifts. Focus on anticipating how the context might change over time " +
				"and creating solutions that remain relevant or adapt to evolving conditions.",
			Metadata: map[string]string{
				"cognitive_style": "futurist",
				"strength":        "trend extrapolation",
			},
		},
	}

	reg := NewTemplates()
	for _, tpl := range templates {
		reg.Add(tpl)
	}
	return reg
}

// DefaultQueries returns the built-in base queries.
func DefaultQueries() []types.Query {
	return []types.Query{
		{
			ID:        "q_urban_transport",
			Text:      "How might we improve urban transportation in the next decade?",
			Variables: map[string]string{"domain": "urban transportation", "timeframe": "next decade"},
		},
		{
			ID:        "q_education",
			Text:      "How might we redesign education systems to better prepare students for future challenges?",
			Variables: map[string]string{"domain": "education", "focus": "future preparation"},
		},
		{
			ID:        "q_healthcare",
			Text:      "How might we make healthcare more accessible and affordable for everyone?",
			Variables: map[string]string{"domain": "healthcare", "focus": "accessibility and affordability"},
		},
		{
			ID:        "q_climate",
			Text:      "How might we accelerate the transition to sustainable energy sources?",
			Variables: map[string]string{"domain": "energy", "focus": "sustainability transition"},
		},
		{
			ID:        "q_food",
			Text:      "How might we transform food systems to be more sustainable and equitable?",
			Variables: map[string]string{"domain": "food systems", "focus": "sustainability and equity"},
		},
	}
}

// DefaultDomains returns the built-in domain registry.
func DefaultDomains() *Domains {
	domains := []types.Domain{
		{
			ID:   "domain_urban_planning",
			Name: "Urban Planning",
			Description: "The interdisciplinary field concerned with the development of urban areas, " +
				"including transportation systems, land use, and public spaces.",
			Keywords: []string{"urban planning", "city development", "urban design", "transportation", "mobility", "land use", "zoning", "public spaces", "infrastructure"},
		},
		{
			ID:   "domain_education",
			Name: "Education",
			Description: "The field focused on teaching and learning processes, educational systems, " +
				"and pedagogy across various age groups and contexts.",
			Keywords: []string{"education", "learning", "teaching", "pedagogy", "curriculum", "schools", "universities", "educational technology", "e-learning"},
		},
		{
			ID:   "domain_healthcare",
			Name: "Healthcare",
			Description: "The organized provision of medical care to individuals or communities, " +
				"including prevention, diagnosis, treatment, and management of illness.",
			Keywords: []string{"healthcare", "medicine", "public health", "medical care", "wellness", "disease prevention", "telehealth", "health systems", "patient care"},
		},
		{
			ID:   "domain_sustainability",
			Name: "Sustainability",
			Description: "The study and practice of meeting human needs without compromising the " +
				"ability of future generations to meet their own needs.",
			Keywords: []string{"sustainability", "environment", "climate change", "renewable energy", "conservation", "green technology", "circular economy", "eco-friendly"},
		},
		{
			ID:   "domain_technology",
			Name: "Technology Innovation",
			Description: "The field focused on developing and implementing new technologies to solve " +
				"existing problems and create new possibilities.",
			Keywords: []string{"technology", "innovation", "digital transformation", "emerging tech", "smart systems", "artificial intelligence", "IoT", "blockchain", "robotics"},
		},
	}

	reg := NewDomains()
	for _, domain := range domains {
		reg.Add(domain)
	}
	return reg
}
