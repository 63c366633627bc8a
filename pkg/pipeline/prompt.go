package pipeline

// furniturePrompt is the fixed instruction template sent to the model. It
// asserts a strict single-JSON-object output contract with literal examples,
// but conformance is never assumed; extraction handles whatever comes back.
const furniturePrompt = `
Parse this furniture query exactly as described:

EXACT QUERY MATCHES FIRST:
- If query is "glass display shelving unit with metal frame" RETURN {"item_type": "shelving unit", "material": "glass", "color": null}
- If query is "gold metal accent table" RETURN {"item_type": "accent table", "material": "metal", "color": "gold"}
- If query is "amber glass cabinet for display" RETURN {"item_type": "display cabinet", "material": "glass", "color": "amber"}

GENERAL RULES (only if no exact match above):
1. IMPORTANT: If query contains phrase "shelving unit" → item_type = "shelving unit"
2. IMPORTANT: If query contains phrase "accent table" → item_type = "accent table"
3. If query contains "metal" → material = "metal"
4. If query contains "glass" → material = "glass"
5. If query contains "wooden" or "wood" → material = "wooden"
6. If query contains "gold" AND "metal" → color = "gold", material = "metal"
7. If query contains "amber" AND "glass" → color = "amber", material = "glass"

Output format: Valid JSON with fields "item_type", "material", and "color". Use null for missing properties.
`

// renderPrompt substitutes the query into the template's single designated
// slot.
func renderPrompt(query string) string {
	return furniturePrompt + "\n\nQuery: \"" + query + "\""
}
