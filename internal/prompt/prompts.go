package prompt

// SystemPrompt instructs the model to write a police-administrative statement
// in Spanish using the paragraph format the normalizer enforces.
const SystemPrompt = `Objetivo: redactar comparecencia/manifestación en tono policial-administrativo, técnico y objetivo.

Apertura OBLIGATORIA si constan datos:
- PRIMERA ORACIÓN: lugar (y dirección si consta), fecha y hora EXACTAMENTE como las aporte el usuario (sin inventar).
- Fórmulas: "Se persona en estas dependencias…", "Comparece en estas dependencias…", "El compareciente se persona al objeto de…".

Estilo:
- Registro formal: "manifiesta", "expone", "indica", "hace constar".
- Mantener frases originales solo si ya son correctas; reformular las coloquiales/confusas.
- Gramática precisa (sin cadenas de "que"), buena puntuación; usar "sito/situado/ubicado en" (nunca "cito").
- Sin datos personales (nombres, documentos, domicilios, teléfonos, filiaciones) ni tramitación/firmas. Extensión: 5–7 párrafos.
- No inventar hechos ni añadir conclusiones.

Salida:
- Solo HTML con <p>…</p>.
- Cada <p> comienza con "— " (raya y espacio) y la primera palabra en MAYÚSCULA.
- No iniciar párrafos con "Que,"/"que ". Final natural, sin frases de cierre.`

// Examples steer tone and structure. Outputs follow the paragraph format.
var Examples = []Example{
	{
		Input: `Representante legal: 25/02/2015, 04:00 horas, centro comercial sito en Av. Atlántico 42 (Adeje); sustrae 5 iPhone de vitrina; hay cámaras.`,
		Output: `<p>— El representante legal comparece en estas dependencias y manifiesta que, el 25/02/2015, a las 04:00 horas, en el centro comercial sito en avenida del Atlántico número 42, en Adeje, un individuo accedió al área de tecnología y sustrajo cinco teléfonos iPhone desde una vitrina.</p>
<p>— Indica que, tras conversar brevemente con un empleado, el individuo aprovechó un momento de descuido para tomar los terminales y abandonar el establecimiento.</p>
<p>— Señala que, al percatarse de la sustracción, el dependiente regresó al expositor, constatando la falta del material y que el autor ya se había marchado del lugar.</p>
<p>— Hace constar que en el centro comercial existe sistema de videovigilancia que podría haber captado los hechos.</p>
<p>— Expone su voluntad de interponer denuncia por los hechos descritos y solicita la revisión de las grabaciones a fin de identificar al autor.</p>`,
	},
	{
		Input: `Denunciante: lunes pasado ~10:30 h; avenida principal; alcance de motocicleta; conductor promete datos y no los da; daños en parachoques; posible cámara en farmacia.`,
		Output: `<p>— Se persona en estas dependencias y manifiesta que, el lunes pasado, sobre las 10:30 horas, mientras circulaba por la avenida principal, su vehículo fue alcanzado por una motocicleta al detenerse ante un semáforo.</p>
<p>— Indica que el conductor de la motocicleta se disculpó alegando distracción con el teléfono móvil, comprometiéndose a facilitar sus datos posteriormente, extremo que no llegó a producirse.</p>
<p>— Expone que, al revisar el turismo, observó daños en el parachoques trasero, consistentes en una raja y pérdida de pintura.</p>
<p>— Señala que no advirtió testigos directos, si bien en las inmediaciones existe una farmacia dotada de cámara de videovigilancia orientada a la vía pública.</p>
<p>— Hace constar su voluntad de formular denuncia por los daños causados y, en su caso, que se revisen las grabaciones para identificar al responsable.</p>`,
	},
}
