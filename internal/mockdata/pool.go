// Package mockdata holds the sample niches shown when the completion
// service is unreachable.
package mockdata

import "github.com/niche-finder/internal/models"

// Pool is the fixed set of sample niches. Callers must not modify it;
// Sampler hands out copies.
var Pool = []models.Niche{
	{
		ID:              "1",
		Name:            "Nigerian Street Food Reviews",
		Saturation:      models.SaturationOpen,
		SaturationLabel: "Open lane",
		Why:             "Most food content focuses on home cooking. Street food tours are rare but get massive engagement!",
		Twists: []string{
			"Rate suya spots across different states",
			"Challenge: Eating at the cheapest vs most expensive buka",
			"Secret menu items at local fast food joints",
			"Morning street food routines in different cities",
		},
		CardGradient: "card-gradient-2",
	},
	{
		ID:              "2",
		Name:            "Tech Reviews in Pidgin",
		Saturation:      models.SaturationOpen,
		SaturationLabel: "Hidden gem",
		Why:             "Tech content in English is everywhere. Pidgin tech reviews connect with a huge underserved audience!",
		Twists: []string{
			"Phone reviews but make it relatable - 'This battery go carry you'",
			"Cheapest gadgets that actually work for Naija light situation",
			"Tech tips your uncle needs to hear",
			"Unboxing with honest Pidgin commentary",
		},
		CardGradient: "card-gradient-4",
	},
	{
		ID:              "3",
		Name:            "Lagos Comedy Skits",
		Saturation:      models.SaturationCrowded,
		SaturationLabel: "Very crowded",
		Why:             "This lane is packed! Everyone's doing the same 'African parent' and 'Lagos traffic' jokes. Time to pivot.",
		Twists: []string{
			"Focus on lesser-shown areas like Epe or Ikorodu life",
			"Corporate Lagos humor from an intern's POV",
			"Dating in Lagos but from the talking stage only",
			"Things only night-shift workers in Lagos understand",
		},
		CardGradient: "card-gradient-3",
	},
	{
		ID:              "4",
		Name:            "Budget Fashion Styling",
		Saturation:      models.SaturationBusy,
		SaturationLabel: "Getting busy",
		Why:             "Fashion content is growing, but budget-focused styling with local market finds still has room!",
		Twists: []string{
			"Style entire outfits under 10k from Yaba Market",
			"Thrift flip challenges - before & after reveals",
			"How to dress for Lagos heat and still look corporate",
			"Building a capsule wardrobe from Balogun Market",
		},
		CardGradient: "card-gradient-1",
	},
	{
		ID:              "5",
		Name:            "Nigerian History Stories",
		Saturation:      models.SaturationOpen,
		SaturationLabel: "Lots of room!",
		Why:             "Educational content about Nigeria's rich history is severely lacking. People are hungry for this!",
		Twists: []string{
			"The real story behind famous Nigerian landmarks",
			"Pre-colonial kingdoms explained with animations",
			"Nigerian heroes your school didn't teach you about",
			"The history behind popular Nigerian names and phrases",
		},
		CardGradient: "card-gradient-5",
	},
	{
		ID:              "6",
		Name:            "Relationship Advice",
		Saturation:      models.SaturationCrowded,
		SaturationLabel: "Very crowded",
		Why:             "Everyone's a relationship coach now. Standing out here requires a very unique angle.",
		Twists: []string{
			"Focus only on situationships - the talking stage content",
			"Relationship advice but for long-distance Nigerian couples abroad",
			"Interview real couples who've been married 20+ years",
			"Dating culture differences across Nigerian ethnic groups",
		},
		CardGradient: "card-gradient-6",
	},
	{
		ID:              "7",
		Name:            "Side Hustle Tutorials",
		Saturation:      models.SaturationBusy,
		SaturationLabel: "Getting busy",
		Why:             "Money content always does well, but specific how-to guides for Nigerian realities still have gaps.",
		Twists: []string{
			"How to actually start a POS business - real numbers",
			"Remote work opportunities that pay in dollars",
			"Turning your car into multiple income streams",
			"Weekend-only businesses for 9-5 workers",
		},
		CardGradient: "card-gradient-4",
	},
	{
		ID:              "8",
		Name:            "Mental Health Awareness",
		Saturation:      models.SaturationOpen,
		SaturationLabel: "Open lane",
		Why:             "Despite growing need, culturally-relevant mental health content in Nigeria is still rare and needed!",
		Twists: []string{
			"Breaking down therapy myths in Nigerian context",
			"Managing anxiety during NEPA/fuel scarcity stress",
			"How to talk to Nigerian parents about mental health",
			"Self-care that doesn't require spending money",
		},
		CardGradient: "card-gradient-2",
	},
}
