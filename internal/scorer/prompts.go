package scorer

const platformDescription = "Global Nature Watch, an environmental data platform"

// batchPrompt args: category name, description, hint, rendered traces.
const batchPrompt = `You are analyzing conversation traces from %s.

Your task is to score each trace on how interesting it is for: %s

Category description: %s
Look for: %s

Score each trace from 0-100 where:
- 0-20: Not relevant to this category
- 21-40: Slightly relevant but low impact
- 41-60: Moderately interesting with some potential
- 61-80: Very interesting with clear actionable insights
- 81-100: Extremely high impact, must-act-on insight

For each trace, provide:
1. A score (0-100)
2. A brief reason (1-2 sentences)

TRACES TO ANALYZE:
%s

Respond in JSON format:
{
  "analyses": [
    {"trace_id": "...", "score": 75, "reason": "..."},
    ...
  ]
}

Only output valid JSON, no other text.`

// traceBlock args: ordinal, trace id, transcript.
const traceBlock = "\n--- TRACE %d (ID: %s) ---\n%s\n"

// classificationPrompt args: organization full name, transcript, organization,
// programme catalogue.
const classificationPrompt = `Analyze this conversation from Global Nature Watch and identify if it relates to %[1]s's programmatic work and strategic initiatives.

CONVERSATION:
%[2]s

Consider %[3]s's PROGRAMMATIC work (not just data tools):

%[4]s

Return a JSON object:
{
  "score": 0-100,
  "has_connection": true/false,
  "topic": "specific topic (e.g., 'palm oil supply chains', 'forest restoration commitments', 'climate policy')",
  "region": "geographic region if identifiable",
  "wri_program": "specific %[3]s program or initiative if any",
  "partner_type": "type of partner if relevant (e.g., 'government', 'corporate', 'NGO', 'community')",
  "story": "one sentence describing how this connects to %[3]s's programmatic work"
}

Scoring:
- 80-100: Direct match to a specific %[3]s program, named partnership, or strategic initiative
- 60-79: Strong alignment with %[3]s's programmatic priorities in that region/sector
- 40-59: General thematic alignment with %[3]s's mission areas
- 0-39: Weak or no connection to %[3]s's programmatic work`

// searchPrompt args: organization full name, query, region, organization,
// programs, content to deprioritise.
const searchPrompt = `Find an article, news story, blog post, report, or publication that discusses %[1]s programmatic work related to: %[2]s in %[3]s

Focus on finding content about %[4]s's:
- Strategic initiatives and programs (not just data tools)
- Partnerships with governments, companies, NGOs, or communities
- Policy work and advocacy
- Field projects and on-the-ground impact
- Country or regional programs
- Named initiatives like: %[5]s

Search broadly - content can be from:
- %[4]s's own website and publications
- News outlets covering %[4]s's work
- Partner organization websites
- Government announcements about %[4]s partnerships
- Academic or research publications mentioning %[4]s programs
- NGO reports featuring %[4]s collaboration

DO NOT prioritize %[6]s. We want stories about %[4]s's programmatic impact.

Return ONLY a JSON object with:
- "found": true/false
- "url": the exact URL if found (or null)
- "title": the article/page title if found (or null)
- "source": where this was published (e.g., "%[4]s Insights", "Reuters", "partner NGO")
- "summary": one sentence about what %[4]s is doing related to this topic

Only return URLs from the search results. If you cannot find relevant content about %[4]s's programmatic work, set found to false.`
