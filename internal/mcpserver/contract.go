package mcpserver

// JournalContract describes the check-in format and privacy rules that
// LLM consumers must follow when logging on the user's behalf.
const JournalContract = `# Wunjo Journaling Contract

Every check-in logged through this server MUST follow these rules.

## Moods

Exactly one of, lowest to highest: ` + "`sad`, `tired`, `neutral`, `calm`, `happy`" + `.
The five-step scale is ordinal; do not invent intermediate values.

## Notes

1. Notes are optional free text in the user's own words. Never fabricate
   feelings the user did not express.
2. Certain keywords in notes feed the on-device cue detectors:
   - stress cues: stress, overwhelm, anx, panic, pressure, deadline
   - content-overload cues: doomscroll, social, news, reel, video
   Only include them when the user actually said so.
3. Keep notes under 4000 characters.

## Privacy

- All data stays on the user's device. Never copy check-in content,
  insights, or explanations anywhere outside this conversation.
- One check-in per user statement; do not batch-generate history.

## Insight semantics

- ` + "`today_insight`" + ` returns a risk probability in (0,1): the model's
  estimate that today's mood lands in the low band (sad/tired). Before any
  model is trained the fixed fallback risk is 0.2 with no message.
- ` + "`explain_today`" + ` lists per-feature contributions sorted by absolute
  magnitude; the sign marks the push direction, not importance.
`
